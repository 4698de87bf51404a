package main

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/canonical/simpledb"
)

// writeRows prints rows as a YAML sequence of mappings keeping the column
// order.
func writeRows(w io.Writer, rows simpledb.RowSet) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, col := range row.Columns() {
			v, _ := row.Get(col)
			if t, ok := v.(time.Time); ok {
				v = t.Format(time.RFC3339Nano)
			}
			val := &yaml.Node{}
			if err := val.Encode(v); err != nil {
				return err
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: col}, val)
		}
		doc.Content = append(doc.Content, m)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}
