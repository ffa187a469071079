package snapshot

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.json
var schemaFS embed.FS

const (
	windowsSchemaURL = "https://wayice.dev/schema/windows.schema.json"
	outputsSchemaURL = "https://wayice.dev/schema/outputs.schema.json"
)

var (
	schemasOnce    sync.Once
	windowsSchema  *jsonschema.Schema
	outputsSchema  *jsonschema.Schema
	schemasLoadErr error
)

func loadSchemas() error {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		for url, file := range map[string]string{
			windowsSchemaURL: "schema/windows.schema.json",
			outputsSchemaURL: "schema/outputs.schema.json",
		} {
			data, err := schemaFS.ReadFile(file)
			if err != nil {
				schemasLoadErr = fmt.Errorf("read %s: %w", file, err)
				return
			}
			if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
				schemasLoadErr = fmt.Errorf("add schema %s: %w", file, err)
				return
			}
		}
		if windowsSchema, schemasLoadErr = compiler.Compile(windowsSchemaURL); schemasLoadErr != nil {
			return
		}
		outputsSchema, schemasLoadErr = compiler.Compile(outputsSchemaURL)
	})
	return schemasLoadErr
}

// ValidateWindows checks a published window document against its schema.
func ValidateWindows(data []byte) error {
	if err := loadSchemas(); err != nil {
		return err
	}
	return validate(windowsSchema, data)
}

// ValidateOutputs checks a published output document against its schema.
func ValidateOutputs(data []byte) error {
	if err := loadSchemas(); err != nil {
		return err
	}
	return validate(outputsSchema, data)
}

func validate(schema *jsonschema.Schema, data []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
