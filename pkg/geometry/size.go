package geometry

import "fmt"

type Size struct {
	Width  float64 `json:"w"`
	Height float64 `json:"h"`
}

func (s Size) String() string {
	return fmt.Sprintf("W:%g,H:%g", s.Width, s.Height)
}
