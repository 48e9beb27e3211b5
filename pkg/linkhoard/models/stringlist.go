package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// StringList is a string array stored as a JSON text column. SQLite has no
// native array type, so tags and folders round-trip through JSON.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("stringlist: unsupported column type")
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// Contains reports whether name is present in the list.
func (l StringList) Contains(name string) bool {
	for _, s := range l {
		if s == name {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with every occurrence of name removed.
func (l StringList) Without(name string) StringList {
	out := make(StringList, 0, len(l))
	for _, s := range l {
		if s != name {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeTags lowercases and deduplicates tag names, dropping empties.
// Order of first occurrence is preserved.
func NormalizeTags(tags []string) StringList {
	out := make(StringList, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// NormalizeFolders trims and deduplicates folder names. Folder names are
// free-form, so case is preserved.
func NormalizeFolders(folders []string) StringList {
	out := make(StringList, 0, len(folders))
	seen := make(map[string]bool, len(folders))
	for _, f := range folders {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
