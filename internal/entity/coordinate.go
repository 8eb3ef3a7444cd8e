package entity

import "fmt"

type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// Within - reports whether the coordinate lies on a size x size grid.
func (that Coordinate) Within(size int) bool {
	return that.Row >= 0 && that.Row < size && that.Col >= 0 && that.Col < size
}
