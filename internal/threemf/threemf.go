// Package threemf reads and writes 3MF packages.
package threemf

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/philipparndt/tesseractise/internal/geometry"
	"github.com/philipparndt/tesseractise/internal/models"
	"github.com/philipparndt/tesseractise/internal/scene"
)

const modelPath = "3D/3dmodel.model"

// Reader reads 3MF files
type Reader struct{}

// Read reads and parses the model part of a 3MF file
func (r *Reader) Read(filename string) (*models.Model, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening ZIP: %w", err)
	}
	defer zr.Close()

	var modelFile *zip.File
	for _, f := range zr.File {
		if strings.EqualFold(strings.TrimPrefix(f.Name, "/"), modelPath) {
			modelFile = f
			break
		}
	}
	if modelFile == nil {
		return nil, fmt.Errorf("%s not found in archive", modelPath)
	}

	rc, err := modelFile.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening model file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("error reading model file: %w", err)
	}

	var model models.Model
	if err := xml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("error parsing XML: %w", err)
	}
	return &model, nil
}

// ReadDocument reads a 3MF file into a document. Objects without a mesh become assemblies.
func (r *Reader) ReadDocument(filename string) (*scene.Document, error) {
	model, err := r.Read(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	doc := scene.NewDocument(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	for _, obj := range model.Resources.Objects {
		name := obj.Name
		if name == "" {
			name = "Object " + obj.ID
		}

		var o *scene.Object
		if obj.Mesh == nil {
			o = scene.NewObject(name, scene.KindAssembly)
		} else {
			o = toObject(name, obj.Mesh)
			if err := o.Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", filename, err)
			}
		}
		o.Source = filename
		doc.Add(o)
	}
	return doc, nil
}

func toObject(name string, m *models.Mesh) *scene.Object {
	vertices := make([]geometry.Point3, len(m.Vertices.Vertex))
	for i, v := range m.Vertices.Vertex {
		vertices[i] = geometry.Point3{v.X, v.Y, v.Z}
	}
	triangles := make([][3]int, len(m.Triangles.Triangle))
	for i, t := range m.Triangles.Triangle {
		triangles[i] = [3]int{t.V1, t.V2, t.V3}
	}
	return scene.NewMesh(name, vertices, triangles)
}

// ToModel builds a model with one object and one build item per mesh object
func ToModel(objs []*scene.Object) *models.Model {
	model := &models.Model{
		Xmlns: models.CoreNamespace,
		Unit:  "millimeter",
		Lang:  "en-US",
		Metadata: []models.Metadata{
			{Name: "Application", Value: "tesseractise"},
		},
	}

	id := 0
	for _, o := range objs {
		if !o.IsMesh() {
			continue
		}
		id++
		mesh := &models.Mesh{}
		mesh.Vertices.Vertex = make([]models.Vertex, len(o.Vertices))
		for i, v := range o.Vertices {
			mesh.Vertices.Vertex[i] = models.Vertex{X: v[0], Y: v[1], Z: v[2]}
		}
		mesh.Triangles.Triangle = make([]models.Triangle, len(o.Triangles))
		for i, t := range o.Triangles {
			mesh.Triangles.Triangle[i] = models.Triangle{V1: t[0], V2: t[1], V3: t[2]}
		}

		objectID := strconv.Itoa(id)
		model.Resources.Objects = append(model.Resources.Objects, models.Object{
			ID:   objectID,
			Name: o.Name(),
			Type: "model",
			Mesh: mesh,
		})
		model.Build.Items = append(model.Build.Items, models.Item{ObjectID: objectID})
	}
	return model
}

// Writer writes 3MF files
type Writer struct{}

// Write writes the mesh objects of objs to a new 3MF package
func (w *Writer) Write(outputFile string, objs []*scene.Object) error {
	outFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer outFile.Close()

	if err := w.WriteTo(outFile, ToModel(objs)); err != nil {
		return err
	}
	return outFile.Close()
}

// WriteTo writes a complete 3MF package for model to out
func (w *Writer) WriteTo(out io.Writer, model *models.Model) error {
	zw := zip.NewWriter(out)

	contentTypes := models.ContentTypes{
		Xmlns: models.ContentTypesNamespace,
		Defaults: []models.ContentType{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "model", ContentType: "application/vnd.ms-package.3dmanufacturing-3dmodel+xml"},
		},
	}
	rels := models.Relationships{
		Xmlns: models.RelsNamespace,
		Relationships: []models.Relationship{
			{ID: "rel0", Target: "/" + modelPath, Type: models.ModelRelType},
		},
	}

	parts := []struct {
		name string
		v    any
	}{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rels},
		{modelPath, model},
	}
	for _, p := range parts {
		if err := writeXML(zw, p.name, p.v); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}

func writeXML(zw *zip.Writer, name string, v any) error {
	data, err := xml.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling %s: %w", name, err)
	}
	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("error creating %s entry: %w", name, err)
	}
	if _, err := entry.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("error writing XML header: %w", err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("error writing %s: %w", name, err)
	}
	return nil
}
