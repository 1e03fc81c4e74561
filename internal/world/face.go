package world

import "github.com/go-gl/mathgl/mgl32"

// Face names one side of a block. Back faces +z and Front faces -z.
type Face uint8

const (
	FaceLeft Face = iota
	FaceRight
	FaceDown
	FaceUp
	FaceBack
	FaceFront
)

// Faces lists every face in mesh emission order.
var Faces = [...]Face{FaceLeft, FaceRight, FaceDown, FaceUp, FaceBack, FaceFront}

var faceOffsets = [...]BlockCoord{
	FaceLeft:  {X: -1},
	FaceRight: {X: 1},
	FaceDown:  {Y: -1},
	FaceUp:    {Y: 1},
	FaceBack:  {Z: 1},
	FaceFront: {Z: -1},
}

var faceNames = [...]string{
	FaceLeft:  "left",
	FaceRight: "right",
	FaceDown:  "down",
	FaceUp:    "up",
	FaceBack:  "back",
	FaceFront: "front",
}

// Offset is the unit step from a block to its neighbor across the face.
func (f Face) Offset() BlockCoord {
	return faceOffsets[f]
}

func (f Face) Normal() mgl32.Vec3 {
	return faceOffsets[f].Vec3()
}

func (f Face) String() string {
	if int(f) < len(faceNames) {
		return faceNames[f]
	}
	return "unknown"
}
