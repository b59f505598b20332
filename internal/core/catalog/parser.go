package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	fieldSeparator = ';'
	quoteChar      = '"'
	tagSeparator   = "|"
)

// ParseError 菜單檔案中無法解析的列
type ParseError struct {
	File   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("%s line %d: %s", e.File, e.Line, e.Reason)
}

// SplitRecord 以 ';' 切分一列；'"' 只切換引號狀態，不做跳脫
func SplitRecord(line string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	for _, r := range line {
		switch {
		case r == quoteChar:
			quoted = !quoted
		case r == fieldSeparator && !quoted:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

// record 一列資料與其行號
type record struct {
	line   int
	fields []string
}

// readRecords 讀取所有資料列，略過標題列與空白列
func readRecords(r io.Reader) ([]record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		out        []record
		lineNo     int
		seenHeader bool
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !seenHeader {
			seenHeader = true
			continue
		}
		out = append(out, record{line: lineNo, fields: SplitRecord(line)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseID(rec record, file string) (int, error) {
	id, err := strconv.Atoi(rec.fields[0])
	if err != nil {
		return 0, &ParseError{File: file, Line: rec.line, Reason: fmt.Sprintf("invalid id %q", rec.fields[0])}
	}
	return id, nil
}

func requireFields(rec record, file string, n int) error {
	if len(rec.fields) < n {
		return &ParseError{File: file, Line: rec.line, Reason: fmt.Sprintf("expected %d fields, got %d", n, len(rec.fields))}
	}
	return nil
}

// ParseIngredients 解析食材檔：id;label;tag
func ParseIngredients(r io.Reader) ([]Ingredient, error) {
	return parseIngredients(r, FileIngredients)
}

func parseIngredients(r io.Reader, file string) ([]Ingredient, error) {
	recs, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	out := make([]Ingredient, 0, len(recs))
	for _, rec := range recs {
		if err := requireFields(rec, file, 3); err != nil {
			return nil, err
		}
		id, err := parseID(rec, file)
		if err != nil {
			return nil, err
		}
		if rec.fields[2] == "" {
			return nil, &ParseError{File: file, Line: rec.line, Reason: "empty tag"}
		}
		out = append(out, Ingredient{ID: id, Label: rec.fields[1], Tag: rec.fields[2]})
	}
	return out, nil
}

// ParseDishes 解析菜色檔：id;name;tag|tag|...;image;description
func ParseDishes(r io.Reader) ([]Dish, error) {
	return parseDishes(r, FileDishes)
}

func parseDishes(r io.Reader, file string) ([]Dish, error) {
	recs, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	out := make([]Dish, 0, len(recs))
	for _, rec := range recs {
		if err := requireFields(rec, file, 5); err != nil {
			return nil, err
		}
		id, err := parseID(rec, file)
		if err != nil {
			return nil, err
		}
		out = append(out, Dish{
			ID:          id,
			Name:        rec.fields[1],
			Tags:        splitTags(rec.fields[2]),
			Image:       rec.fields[3],
			Description: rec.fields[4],
		})
	}
	return out, nil
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, tagSeparator)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParseQuips 解析台詞檔：id;text
func ParseQuips(r io.Reader) ([]Quip, error) {
	return parseQuips(r, FileQuips)
}

func parseQuips(r io.Reader, file string) ([]Quip, error) {
	recs, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	out := make([]Quip, 0, len(recs))
	for _, rec := range recs {
		if err := requireFields(rec, file, 2); err != nil {
			return nil, err
		}
		id, err := parseID(rec, file)
		if err != nil {
			return nil, err
		}
		out = append(out, Quip{ID: id, Text: rec.fields[1]})
	}
	return out, nil
}
