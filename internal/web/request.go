package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/csvmanager/internal/core"
)

// jsonRows decodes an array of JSON objects into raw rows. Scalar values
// are coerced to their text form so numbers sent by a spreadsheet-like
// client keep their exact digits. A JSON null or missing field stays nil.
type jsonRows []core.RawRow

func (rows *jsonRows) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*rows = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return err
	}

	out := make(jsonRows, len(objects))
	for i, obj := range objects {
		out[i] = rawRow(obj)
	}
	*rows = out
	return nil
}

func rawRow(obj map[string]any) core.RawRow {
	row := make(core.RawRow, len(obj))
	for k, v := range obj {
		row[k] = textValue(v)
	}
	return row
}

func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// datasetsRequest is the body shared by validate, export and autocomplete.
type datasetsRequest struct {
	StringsData         jsonRows `json:"stringsData"`
	ClassificationsData jsonRows `json:"classificationsData"`
	Format              string   `json:"format"`
	Which               string   `json:"which"`
}

// parse turns the raw rows into typed rows. Absent datasets stay nil.
func (d datasetsRequest) parse() ([]core.StringsRow, []core.ClassificationsRow, error) {
	stringsRows, err := core.ParseStrings(d.StringsData)
	if err != nil {
		return nil, nil, err
	}
	classifications, err := core.ParseClassifications(d.ClassificationsData)
	if err != nil {
		return nil, nil, err
	}
	return stringsRows, classifications, nil
}

// jsonRow decodes one JSON object into a raw row, coercing values like
// jsonRows does.
type jsonRow core.RawRow

func (row *jsonRow) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*row = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return err
	}
	*row = jsonRow(rawRow(obj))
	return nil
}

// rowRequest is the body of a single-row validation.
type rowRequest struct {
	Row                 jsonRow  `json:"row"`
	RowIndex            int      `json:"rowIndex"`
	ClassificationsData jsonRows `json:"classificationsData"`
}

// decodeJSON reads a size-limited JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return core.NewRequestError("request body is required")
		}
		return core.NewRequestError("malformed JSON body: %v", err)
	}
	return nil
}

// readFormFile loads one multipart file. A missing field yields nil.
func readFormFile(r *http.Request, field string, maxSize int64) (*core.File, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, core.NewRequestError("read %s file: %v", field, err)
	}
	defer f.Close()

	if header.Size > maxSize {
		return nil, &http.MaxBytesError{Limit: maxSize}
	}
	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s file: %w", field, err)
	}
	if int64(len(data)) > maxSize {
		return nil, &http.MaxBytesError{Limit: maxSize}
	}

	return &core.File{
		Name:        header.Filename,
		ContentType: strings.TrimSpace(header.Header.Get("Content-Type")),
		Data:        data,
	}, nil
}
