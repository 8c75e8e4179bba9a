package gosiefps

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
)

var ErrNotPLY = errors.New("not an ascii PLY model")

// plyPrealloc bounds the capacity taken from header counts; larger models
// grow by append.
const plyPrealloc = 1 << 16

type plyVertex struct {
	pos   Vector3
	color color.RGBA
}

// ReadMeshPLY reads an ascii PLY model. Faces with more than three vertices
// are fanned into triangles. Face colours come from the face element, else
// the average of the vertex colours, else fallback.
func ReadMeshPLY(r io.Reader, fallback color.RGBA) (*Mesh, error) {
	scanner := bufio.NewScanner(r)

	var vertexCount, faceCount int
	var hasVertexColor, hasFaceColor bool
	var element string

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, ErrNotPLY
	}
header:
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "format":
			if len(parts) < 2 || parts[1] != "ascii" {
				return nil, ErrNotPLY
			}
		case "element":
			if len(parts) != 3 {
				return nil, fmt.Errorf("bad element line %q", scanner.Text())
			}
			n, err := strconv.Atoi(parts[2])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("bad %s count %q", parts[1], parts[2])
			}
			element = parts[1]
			switch element {
			case "vertex":
				vertexCount = n
			case "face":
				faceCount = n
			}
		case "property":
			if len(parts) > 2 && (parts[len(parts)-1] == "red" || parts[len(parts)-1] == "diffuse_red") {
				switch element {
				case "vertex":
					hasVertexColor = true
				case "face":
					hasFaceColor = true
				}
			}
		case "end_header":
			break header
		}
	}

	vertices := make([]plyVertex, 0, min(vertexCount, plyPrealloc))
	for i := 0; i < vertexCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file while reading vertices")
		}
		parts := strings.Fields(scanner.Text())
		want := 3
		if hasVertexColor {
			want = 6
		}
		if len(parts) < want {
			return nil, fmt.Errorf("invalid vertex data on line %d", i)
		}
		var xyz [3]float64
		for j := range xyz {
			v, err := strconv.ParseFloat(parts[j], 64)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			xyz[j] = v
		}
		v := plyVertex{pos: Vector3{xyz[0], xyz[1], xyz[2]}, color: fallback}
		if hasVertexColor {
			c, err := plyColor(parts[3:6])
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			v.color = c
		}
		vertices = append(vertices, v)
	}

	tris := make([]Triangle, 0, min(faceCount, plyPrealloc))
	for i := 0; i < faceCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file while reading faces")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			return nil, fmt.Errorf("empty face on line %d", i)
		}
		n, err := strconv.Atoi(parts[0])
		if err != nil || n < 3 || len(parts) < n+1 {
			return nil, fmt.Errorf("invalid face data on line %d", i)
		}

		face := make([]plyVertex, n)
		for j := range face {
			idx, err := strconv.Atoi(parts[j+1])
			if err != nil || idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d: bad vertex index %q", i, parts[j+1])
			}
			face[j] = vertices[idx]
		}

		clr := fallback
		switch {
		case hasFaceColor:
			if len(parts) != n+4 {
				return nil, fmt.Errorf("invalid face-color data on line %d", i)
			}
			if clr, err = plyColor(parts[n+1:]); err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
		case hasVertexColor:
			clr = averageColor(face)
		}

		for j := 2; j < n; j++ {
			tris = append(tris, NewTriangle(face[0].pos, face[j-1].pos, face[j].pos, clr))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from PLY source: %w", err)
	}
	return NewMesh(tris), nil
}

func plyColor(parts []string) (color.RGBA, error) {
	var c [3]uint8
	for i := range c {
		v, err := strconv.ParseUint(parts[i], 10, 8)
		if err != nil {
			return color.RGBA{}, err
		}
		c[i] = uint8(v)
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}, nil
}

func averageColor(face []plyVertex) color.RGBA {
	var r, g, b int
	for _, v := range face {
		r += int(v.color.R)
		g += int(v.color.G)
		b += int(v.color.B)
	}
	n := len(face)
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}
