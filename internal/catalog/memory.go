package catalog

import (
	"fmt"
	"sync"

	"github.com/dshills/CascadeDB/internal/errors"
)

// MemoryCatalog is an in-memory catalog implementation used by tests and by
// callers that assemble metadata by hand.
type MemoryCatalog struct {
	mu     sync.RWMutex
	tables map[string]*Table // key: schema.table
	nextID int64
}

// NewMemoryCatalog creates a new in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		tables: make(map[string]*Table),
		nextID: 1,
	}
}

func tableKey(schemaName, tableName string) string {
	return fmt.Sprintf("%s.%s", schemaName, tableName)
}

// CreateTable creates a new table from the given schema.
func (c *MemoryCatalog) CreateTable(schema *TableSchema) (*Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := tableKey(schema.SchemaName, schema.TableName)
	if _, exists := c.tables[key]; exists {
		return nil, errors.Newf(errors.DuplicateTable, "table %s already exists", key)
	}

	table := &Table{
		ID:         c.nextID,
		SchemaName: schema.SchemaName,
		TableName:  schema.TableName,
		Stats:      DefaultTableStats(),
	}
	c.nextID++

	for i, def := range schema.Columns {
		table.Columns = append(table.Columns, &Column{
			ID:              int64(i + 1),
			Name:            def.Name,
			DataType:        def.DataType,
			OrdinalPosition: i + 1,
			IsNullable:      def.IsNullable,
		})
	}

	c.tables[key] = table
	return table, nil
}

// GetTable returns the table with the given name.
func (c *MemoryCatalog) GetTable(schemaName, tableName string) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	table, exists := c.tables[tableKey(schemaName, tableName)]
	if !exists {
		return nil, errors.Newf(errors.UndefinedTable, "table %s.%s does not exist", schemaName, tableName)
	}
	return table, nil
}

// ListTables returns all tables in the given schema.
func (c *MemoryCatalog) ListTables(schemaName string) ([]*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var tables []*Table
	for _, t := range c.tables {
		if t.SchemaName == schemaName {
			tables = append(tables, t)
		}
	}
	return tables, nil
}

// CreateIndex creates a new index from the given schema.
func (c *MemoryCatalog) CreateIndex(schema *IndexSchema) (*Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, exists := c.tables[tableKey(schema.SchemaName, schema.TableName)]
	if !exists {
		return nil, errors.Newf(errors.UndefinedTable, "table %s.%s does not exist", schema.SchemaName, schema.TableName)
	}
	for _, idx := range table.Indexes {
		if idx.Name == schema.IndexName {
			return nil, errors.Newf(errors.DuplicateObject, "index %s already exists", schema.IndexName)
		}
	}

	index := &Index{
		ID:       c.nextID,
		Name:     schema.IndexName,
		TableID:  table.ID,
		Type:     schema.Type,
		IsUnique: schema.IsUnique,
	}
	c.nextID++

	for i, def := range schema.Columns {
		col := table.Column(def.ColumnName)
		if col == nil {
			return nil, errors.Newf(errors.UndefinedObject, "column %s does not exist in table %s", def.ColumnName, schema.TableName)
		}
		index.Columns = append(index.Columns, IndexColumn{
			Column:    col,
			SortOrder: def.SortOrder,
			Position:  i,
		})
	}

	table.Indexes = append(table.Indexes, index)
	return index, nil
}

// GetIndex returns the named index on the given table.
func (c *MemoryCatalog) GetIndex(schemaName, tableName, indexName string) (*Index, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	table, exists := c.tables[tableKey(schemaName, tableName)]
	if !exists {
		return nil, errors.Newf(errors.UndefinedTable, "table %s.%s does not exist", schemaName, tableName)
	}
	for _, idx := range table.Indexes {
		if idx.Name == indexName {
			return idx, nil
		}
	}
	return nil, errors.Newf(errors.UndefinedObject, "index %s does not exist on table %s.%s", indexName, schemaName, tableName)
}

// GetTableStats returns the statistics for the given table.
func (c *MemoryCatalog) GetTableStats(schemaName, tableName string) (*TableStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	table, exists := c.tables[tableKey(schemaName, tableName)]
	if !exists {
		return nil, errors.Newf(errors.UndefinedTable, "table %s.%s does not exist", schemaName, tableName)
	}
	return table.Stats, nil
}

// SetTableStats replaces the statistics for the given table.
func (c *MemoryCatalog) SetTableStats(schemaName, tableName string, stats *TableStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	table, exists := c.tables[tableKey(schemaName, tableName)]
	if !exists {
		return errors.Newf(errors.UndefinedTable, "table %s.%s does not exist", schemaName, tableName)
	}
	table.Stats = stats
	return nil
}
