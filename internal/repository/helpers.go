package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Alvi123787/Job-site-backend/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// isUniqueConstraintError checks if an error is a unique index violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, database.ErrDuplicate) || database.IsUniqueViolation(err.Error())
}

// recordID qualifies a bare key with its table ("abc" -> "job:abc")
func recordID(table, id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, table+":") {
		return id
	}
	return table + ":" + id
}

// convertSurrealID renders the various SurrealDB record id shapes as "table:key"
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		tb, _ := v["tb"].(string)
		if tb == "" {
			tb, _ = v["Table"].(string)
		}
		key := v["id"]
		if key == nil {
			key = v["ID"]
		}
		if tb != "" && key != nil {
			return fmt.Sprintf("%s:%v", tb, key)
		}
	}
	return fmt.Sprintf("%v", id)
}

// normalizeValue converts SurrealDB driver types into JSON friendly values
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if k == "id" {
				out[k] = convertSurrealID(val)
				continue
			}
			out[k] = normalizeValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	case models.RecordID, *models.RecordID:
		return convertSurrealID(t)
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t != nil {
			return t.Time
		}
		return nil
	}
	return v
}

// decodeRecord maps one result row onto T
func decodeRecord[T any](row interface{}) (*T, error) {
	data, ok := row.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	jsonBytes, err := json.Marshal(normalizeValue(data))
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &out, nil
}

// decodeRecords maps every row of a statement result onto T
func decodeRecords[T any](rows []interface{}) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		rec, err := decodeRecord[T](row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// statementRows returns the rows produced by statement idx of a Query call
func statementRows(results []interface{}, idx int) []interface{} {
	if idx < 0 || idx >= len(results) {
		return nil
	}
	if resp, ok := results[idx].(map[string]interface{}); ok {
		switch rows := resp["result"].(type) {
		case []interface{}:
			return rows
		case nil:
			return nil
		default:
			return []interface{}{rows}
		}
	}
	return nil
}

// extractCount extracts count from a `SELECT count() AS count ... GROUP ALL` row
func extractCount(result interface{}) int {
	if data, ok := result.(map[string]interface{}); ok {
		return extractCountValue(data["count"])
	}
	return extractCountValue(result)
}

// extractCountValue converts various numeric types to int
func extractCountValue(v interface{}) int {
	switch c := v.(type) {
	case float64:
		return int(c)
	case float32:
		return int(c)
	case int:
		return c
	case int64:
		return int(c)
	case uint64:
		return int(c)
	case int32:
		return int(c)
	case uint32:
		return int(c)
	}
	return 0
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	return extractCountValue(m[key])
}

// nilIfEmpty stores NONE instead of an empty string
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// formatTime renders a time for a <datetime> cast
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timeOrNil stores NONE for a nil or zero time
func timeOrNil(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return formatTime(*t)
}
