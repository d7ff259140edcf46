package export

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
)

// JSONRenderer renders rows as a JSON array of objects keyed by header label,
// or as newline-delimited objects when Lines is set. Keys keep column order.
type JSONRenderer struct {
	Lines bool
}

// Render writes one object per row.
func (r JSONRenderer) Render(ctx context.Context, table Table, w io.Writer) (RenderStats, error) {
	cw := &countingWriter{w: w}
	stats := RenderStats{}
	headers := table.HeadersWithDetails()

	if !r.Lines {
		if _, err := cw.Write([]byte("[")); err != nil {
			return stats, err
		}
	}

	for i, record := range table.RecordsWithDetails() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		payload, err := orderedObject(headers, record)
		if err != nil {
			return stats, err
		}
		if r.Lines {
			payload = append(payload, '\n')
		} else if i > 0 {
			if _, err := cw.Write([]byte(",")); err != nil {
				return stats, err
			}
		}
		if _, err := cw.Write(payload); err != nil {
			return stats, err
		}
		stats.Rows++
	}

	if !r.Lines {
		if _, err := cw.Write([]byte("]")); err != nil {
			return stats, err
		}
	}

	stats.Bytes = cw.count
	return stats, nil
}

func orderedObject(keys, values []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
