package catalog

import (
	"fmt"

	"github.com/dshills/CascadeDB/internal/sql/types"
)

// Catalog exposes the table metadata and statistics the optimizer consumes.
// The catalog itself is an external collaborator; this interface is the
// contract the cost model and the implementation rules rely on.
type Catalog interface {
	// Table operations
	CreateTable(schema *TableSchema) (*Table, error)
	GetTable(schemaName, tableName string) (*Table, error)
	ListTables(schemaName string) ([]*Table, error)

	// Index operations
	CreateIndex(index *IndexSchema) (*Index, error)
	GetIndex(schemaName, tableName, indexName string) (*Index, error)

	// Statistics operations
	GetTableStats(schemaName, tableName string) (*TableStats, error)
	SetTableStats(schemaName, tableName string, stats *TableStats) error
}

// TableSchema defines the structure for creating a new table.
type TableSchema struct {
	SchemaName string
	TableName  string
	Columns    []ColumnDef
}

// ColumnDef defines a column in a table.
type ColumnDef struct {
	Name       string
	DataType   types.DataType
	IsNullable bool
}

// Table represents a table with its metadata.
type Table struct {
	ID         int64
	SchemaName string
	TableName  string
	Columns    []*Column
	Indexes    []*Index
	Stats      *TableStats
}

// Column represents a column with its metadata.
type Column struct {
	ID              int64
	Name            string
	DataType        types.DataType
	OrdinalPosition int
	IsNullable      bool
	Stats           *ColumnStats
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// IndexSchema defines the structure for creating a new index.
type IndexSchema struct {
	SchemaName string
	TableName  string
	IndexName  string
	Type       IndexType
	IsUnique   bool
	Columns    []IndexColumnDef
}

// IndexColumnDef defines a column in an index.
type IndexColumnDef struct {
	ColumnName string
	SortOrder  SortOrder
}

// Index represents an index on a table.
type Index struct {
	ID       int64
	Name     string
	TableID  int64
	Type     IndexType
	IsUnique bool
	Columns  []IndexColumn
}

// IndexColumn represents a column in an index.
type IndexColumn struct {
	Column    *Column
	SortOrder SortOrder
	Position  int
}

// IndexType represents the type of index.
type IndexType int

const (
	// BTreeIndex is a B-tree index.
	BTreeIndex IndexType = iota
	// HashIndex is a hash index.
	HashIndex
)

func (t IndexType) String() string {
	switch t {
	case BTreeIndex:
		return "BTREE"
	case HashIndex:
		return "HASH"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// SortOrder represents the sort order in an index.
type SortOrder int

const (
	// Ascending sort order.
	Ascending SortOrder = iota
	// Descending sort order.
	Descending
)

func (s SortOrder) String() string {
	if s == Descending {
		return "DESC"
	}
	return "ASC"
}
