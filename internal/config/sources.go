package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Semantic column names used by the Infoserve schema table.
const (
	FieldInvoice      = "invoice"
	FieldProductCode  = "product_code"
	FieldCustomerCode = "customer_code"
	FieldQuantity     = "quantity"
	FieldDate         = "date"
	FieldDescription  = "description"
	FieldCode         = "code"
	FieldName         = "name"
)

// InfoserveSchemaVersion identifies the export layout the widths below were measured on.
const InfoserveSchemaVersion = "infoserve-txt-v1"

// ColumnRule maps one semantic field to a column of a fixed-width export.
// Header is matched first (trimmed, case-insensitive equality); Keyword is the
// substring fallback for exports whose header text drifted.
type ColumnRule struct {
	Header  string
	Keyword string
}

// FileSchema describes one fixed-width export file.
type FileSchema struct {
	File     string
	Version  string
	Widths   []int
	Columns  map[string]ColumnRule
	Required []string
}

func (s FileSchema) Validate() error {
	if strings.TrimSpace(s.File) == "" {
		return fmt.Errorf("schema %s: file name is required", s.Version)
	}
	if len(s.Widths) == 0 {
		return fmt.Errorf("schema %s (%s): no column widths", s.Version, s.File)
	}
	for i, w := range s.Widths {
		if w <= 0 {
			return fmt.Errorf("schema %s (%s): width %d at position %d must be positive", s.Version, s.File, w, i)
		}
	}
	for _, field := range s.Required {
		rule, ok := s.Columns[field]
		if !ok {
			return fmt.Errorf("schema %s (%s): required field %q has no column rule", s.Version, s.File, field)
		}
		if strings.TrimSpace(rule.Header) == "" && strings.TrimSpace(rule.Keyword) == "" {
			return fmt.Errorf("schema %s (%s): field %q needs a header or a keyword", s.Version, s.File, field)
		}
	}
	return nil
}

// InfoserveConfig locates the three foreign point-of-sale exports.
type InfoserveConfig struct {
	Dir       string
	Encoding  string
	SkipRows  int
	Movements FileSchema
	Customers FileSchema
	Products  FileSchema
}

func (c InfoserveConfig) Path(schema FileSchema) string {
	return filepath.Join(c.Dir, schema.File)
}

func (c InfoserveConfig) Validate() error {
	if c.SkipRows < 0 {
		return fmt.Errorf("infoserve: skip rows must not be negative, got %d", c.SkipRows)
	}
	if strings.TrimSpace(c.Encoding) == "" {
		return fmt.Errorf("infoserve: encoding is required")
	}
	for _, s := range []FileSchema{c.Movements, c.Customers, c.Products} {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("infoserve: %w", err)
		}
	}
	return nil
}

func DefaultInfoserveConfig(dir, encoding string, skipRows int) InfoserveConfig {
	return InfoserveConfig{
		Dir:      dir,
		Encoding: encoding,
		SkipRows: skipRows,
		Movements: FileSchema{
			File:    "movto_productos.txt",
			Version: InfoserveSchemaVersion,
			Widths:  []int{15, 9, 7, 18, 4, 7, 17, 30, 8, 11, 12, 5, 5, 9},
			Columns: map[string]ColumnRule{
				FieldInvoice:      {Header: "Nota", Keyword: "Nota"},
				FieldProductCode:  {Header: "Codigo", Keyword: "Codigo"},
				FieldCustomerCode: {Header: "Clie", Keyword: "Clie"},
				FieldQuantity:     {Header: "Ctd", Keyword: "Ctd"},
				FieldDate:         {Header: "Fecha", Keyword: "Fecha"},
				FieldDescription:  {Header: "Descripcion", Keyword: "Descripcion"},
			},
			Required: []string{
				FieldInvoice, FieldProductCode, FieldCustomerCode,
				FieldQuantity, FieldDate, FieldDescription,
			},
		},
		Customers: FileSchema{
			File:    "lista_de_clientes.txt",
			Version: InfoserveSchemaVersion,
			Widths:  []int{13, 28},
			Columns: map[string]ColumnRule{
				FieldCode: {Header: "Codigo", Keyword: "Codigo"},
				FieldName: {Header: "Nombre", Keyword: "Nombre"},
			},
			Required: []string{FieldCode, FieldName},
		},
		Products: FileSchema{
			File:    "lista_del_stock.txt",
			Version: InfoserveSchemaVersion,
			Widths:  []int{10, 60},
			Columns: map[string]ColumnRule{
				FieldCode: {Header: "Codigo", Keyword: "Codigo"},
				FieldName: {Header: "Descripcion", Keyword: "Descripcion"},
			},
			Required: []string{FieldCode, FieldName},
		},
	}
}

// InformesConfig is the positional contract with the Informes spreadsheet export.
type InformesConfig struct {
	// CodeColumn is the final column joined against the domestic cross-reference code.
	CodeColumn  string
	SkipRows    int
	DropIndices []int
	TempNames   []string
	DropName    string
	FinalNames  []string
}

func DefaultInformesConfig() InformesConfig {
	return InformesConfig{
		CodeColumn:  "Cod PY",
		SkipRows:    2,
		DropIndices: []int{0, 2, 3, 5, 6, 7, 8, 9},
		TempNames:   []string{"Cod PY", "Produto", "Marca", "Vendas PY", "Estoque PY", "PRECIO"},
		DropName:    "PRECIO",
		FinalNames:  []string{"Cod PY", "Produto", "Marca", "Vendas PY", "Estoque PY"},
	}
}

func (c InformesConfig) Validate() error {
	if c.SkipRows < 0 {
		return fmt.Errorf("informes: skip rows must not be negative, got %d", c.SkipRows)
	}
	found := false
	for _, n := range c.TempNames {
		if n == c.DropName {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("informes: dropped column %q is not among the temporary names", c.DropName)
	}
	if len(c.TempNames)-1 != len(c.FinalNames) {
		return fmt.Errorf("informes: %d temporary names cannot yield %d final names", len(c.TempNames), len(c.FinalNames))
	}
	for _, n := range c.FinalNames {
		if n == c.CodeColumn {
			return nil
		}
	}
	return fmt.Errorf("informes: code column %q is not among the final names", c.CodeColumn)
}
