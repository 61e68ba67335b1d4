package svf

import "fmt"

// Stereo runs one filter state per channel. State is never shared between
// the channels, so it is safe to feed them from independent streams of the
// same goroutine.
type Stereo struct {
	left  *Filter
	right *Filter
}

// NewStereo constructs a stereo helper with independent left/right state
// built from the same options.
func NewStereo(opts ...Option) (*Stereo, error) {
	left, err := New(opts...)
	if err != nil {
		return nil, err
	}

	right, err := New(opts...)
	if err != nil {
		return nil, err
	}

	return &Stereo{left: left, right: right}, nil
}

// Left returns the left-channel filter.
func (s *Stereo) Left() *Filter { return s.left }

// Right returns the right-channel filter.
func (s *Stereo) Right() *Filter { return s.right }

// Reset clears both channel states.
func (s *Stereo) Reset() {
	s.left.Reset()
	s.right.Reset()
}

// Update processes one stereo sample frame with the same response selection
// for both channels.
func (s *Stereo) Update(leftIn, rightIn float64, response Response) (leftOut, rightOut float64, err error) {
	leftOut, err = s.left.Update(leftIn, response)
	if err != nil {
		return 0, 0, err
	}

	rightOut, err = s.right.Update(rightIn, response)
	if err != nil {
		return 0, 0, err
	}

	return leftOut, rightOut, nil
}

// ProcessInPlace processes stereo planar buffers in place. Both buffers must
// have the same length.
func (s *Stereo) ProcessInPlace(left, right []float64, response Response) error {
	if len(left) != len(right) {
		return fmt.Errorf("svf: left length %d does not match right length %d", len(left), len(right))
	}

	if err := s.left.ProcessInPlace(left, response); err != nil {
		return err
	}

	return s.right.ProcessInPlace(right, response)
}
