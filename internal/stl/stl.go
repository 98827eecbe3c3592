// Package stl reads and writes STL meshes as scene documents.
package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/scene"
)

const (
	headerSize   = 80
	triangleSize = 50
)

// Vector3 represents a 3D vector
type Vector3 struct {
	X, Y, Z float32
}

// Triangle represents a triangle in 3D space
type Triangle struct {
	Normal     Vector3
	V1, V2, V3 Vector3
}

// Solid is one named triangle soup
type Solid struct {
	Name      string
	Triangles []Triangle
}

// Parser parses STL files
type Parser struct{}

// NewParser creates a new STL parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads an STL file and returns one mesh object per solid
func (p *Parser) Parse(filename string) (*scene.Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	solids, err := p.ParseBytes(data, base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	doc := scene.NewDocument(base)
	for _, s := range solids {
		obj := s.ToObject()
		obj.Source = filename
		doc.Add(obj)
	}
	return doc, nil
}

// ParseBytes detects the STL flavor and parses all solids. name is used for unnamed solids.
func (p *Parser) ParseBytes(data []byte, name string) ([]Solid, error) {
	if isBinary(data) {
		s, err := p.parseBinary(data, name)
		if err != nil {
			return nil, err
		}
		return []Solid{*s}, nil
	}
	return p.parseASCII(bytes.NewReader(data), name)
}

// isBinary checks the size implied by the triangle count; some binary files start with "solid" too
func isBinary(data []byte) bool {
	if len(data) >= headerSize+4 {
		n := binary.LittleEndian.Uint32(data[headerSize : headerSize+4])
		if uint64(len(data)) == uint64(headerSize+4)+uint64(n)*triangleSize {
			return true
		}
	}
	return !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid"))
}

// parseASCII parses an ASCII STL file, one Solid per solid/endsolid block
func (p *Parser) parseASCII(reader io.Reader, name string) ([]Solid, error) {
	scanner := bufio.NewScanner(reader)
	var solids []Solid
	var current *Solid
	var tri Triangle
	var vertexCount int
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			solidName := name
			if len(fields) > 1 {
				solidName = strings.Join(fields[1:], " ")
			}
			solids = append(solids, Solid{Name: solidName})
			current = &solids[len(solids)-1]
		case "endsolid":
			current = nil
		case "facet":
			if current == nil {
				return nil, fmt.Errorf("line %d: facet outside of solid", lineNo)
			}
			tri = Triangle{}
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseVector(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				tri.Normal = n
			}
			vertexCount = 0
		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs three coordinates", lineNo)
			}
			v, err := parseVector(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			switch vertexCount {
			case 0:
				tri.V1 = v
			case 1:
				tri.V2 = v
			case 2:
				tri.V3 = v
			default:
				return nil, fmt.Errorf("line %d: facet has more than three vertices", lineNo)
			}
			vertexCount++
		case "endfacet":
			if current == nil {
				return nil, fmt.Errorf("line %d: endfacet outside of solid", lineNo)
			}
			if vertexCount != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices", lineNo, vertexCount)
			}
			current.Triangles = append(current.Triangles, tri)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if len(solids) == 0 {
		return nil, fmt.Errorf("no solid found")
	}
	return solids, nil
}

func parseVector(fields []string) (Vector3, error) {
	var c [3]float32
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return Vector3{}, fmt.Errorf("invalid number %q", f)
		}
		c[i] = float32(v)
	}
	return Vector3{c[0], c[1], c[2]}, nil
}

// parseBinary parses a binary STL file. The triangle count must fit in data.
func (p *Parser) parseBinary(data []byte, name string) (*Solid, error) {
	solid := &Solid{Name: name}

	if len(data) < headerSize+4 {
		return nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}
	triangleCount := binary.LittleEndian.Uint32(data[headerSize : headerSize+4])
	if need := uint64(headerSize+4) + uint64(triangleCount)*triangleSize; uint64(len(data)) < need {
		return nil, fmt.Errorf("binary STL header claims %d triangles (%d bytes) but file has %d bytes",
			triangleCount, need, len(data))
	}
	reader := bytes.NewReader(data[headerSize+4:])

	solid.Triangles = make([]Triangle, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		if err := binary.Read(reader, binary.LittleEndian, &solid.Triangles[i]); err != nil {
			return nil, fmt.Errorf("error reading triangle %d: %w", i, err)
		}
		// attribute byte count
		var attributeCount uint16
		if err := binary.Read(reader, binary.LittleEndian, &attributeCount); err != nil {
			return nil, fmt.Errorf("error reading attribute count: %w", err)
		}
	}

	return solid, nil
}

// ToObject welds identical vertex positions into an indexed mesh object
func (s *Solid) ToObject() *scene.Object {
	vertexMap := make(map[Vector3]int)
	var vertices []geometry.Point3

	index := func(v Vector3) int {
		if idx, exists := vertexMap[v]; exists {
			return idx
		}
		vertexMap[v] = len(vertices)
		vertices = append(vertices, geometry.Point3{float64(v.X), float64(v.Y), float64(v.Z)})
		return len(vertices) - 1
	}

	triangles := make([][3]int, 0, len(s.Triangles))
	for _, tri := range s.Triangles {
		triangles = append(triangles, [3]int{index(tri.V1), index(tri.V2), index(tri.V3)})
	}
	return scene.NewMesh(s.Name, vertices, triangles)
}
