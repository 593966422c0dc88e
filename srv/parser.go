package srv

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/c3p0-box/msgcheck/erm"
)

// MaxBodySize caps the JSON body ParseRequest reads.
const MaxBodySize = 4 << 20

// ParseRequest parses URL query parameters and the JSON request body into
// target, which must be a pointer to a struct.
//
// Query parameters are mapped through `query` struct tags (the lowercased
// field name when absent, "-" to skip). Fields implementing
// encoding.TextUnmarshaler are parsed with it; strings, integers, floats and
// bools are converted directly. The body is decoded as JSON when the
// Content-Type is application/json or missing. Unknown JSON fields are
// rejected.
//
//	type ValidateRequest struct {
//		Notation msgfmt.Notation `json:"notation" query:"notation"`
//		Format   string          `json:"format"`
//	}
func ParseRequest(r *http.Request, target interface{}) erm.Error {
	if r == nil {
		return erm.InvalidRequestError("missing request", nil)
	}

	if err := parseQueryParams(r, target); err != nil {
		return err
	}

	contentType := r.Header.Get(HeaderContentType)
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil && contentType != "" {
		return erm.InvalidRequestError("malformed content type", err)
	}

	switch mediaType {
	case MIMEApplicationJSON, "":
		return parseJSONRequest(r, target)
	default:
		return erm.InvalidRequestError("unsupported content type "+mediaType, nil)
	}
}

func parseJSONRequest(r *http.Request, target interface{}) erm.Error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			slog.With(
				slog.String("name", "srv.parseJSONRequest"),
				slog.Any("error", err),
			).Debug("failed to close request body")
		}
	}(r.Body)

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		slog.With(
			slog.String("name", "srv.parseJSONRequest"),
			slog.Any("error", err),
		).Debug("failed to parse JSON request body")
		return erm.InvalidRequestError("malformed JSON body", err)
	}
	return nil
}

func parseQueryParams(r *http.Request, target interface{}) erm.Error {
	if r.URL == nil {
		return nil
	}

	values := r.URL.Query()
	if len(values) == 0 {
		return nil
	}
	return mapQueryToStruct(values, target)
}

// mapQueryToStruct maps query parameters to struct fields by `query` tag.
func mapQueryToStruct(values map[string][]string, target interface{}) erm.Error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return erm.InvalidRequestError("target must be a pointer to a struct", nil)
	}

	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		fieldType := rt.Field(i)

		if !field.CanSet() {
			continue
		}

		tag := fieldType.Tag.Get("query")
		if tag == "" {
			tag = strings.ToLower(fieldType.Name)
		}
		if tag == "-" {
			continue
		}

		vals, ok := values[tag]
		if !ok || len(vals) == 0 {
			continue
		}

		if err := setFieldValue(field, vals[0]); err != nil {
			slog.With(
				slog.String("name", "srv.mapQueryToStruct"),
				slog.String("field", fieldType.Name),
				slog.String("query", tag),
				slog.Any("error", err),
			).Debug("failed to set field value from query parameter")

			return erm.InvalidRequestError(fmt.Sprintf("invalid query parameter %q", tag), err).WithSubject(tag)
		}
	}
	return nil
}

func textUnmarshaler(field reflect.Value) encoding.TextUnmarshaler {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		u, _ := field.Interface().(encoding.TextUnmarshaler)
		return u
	}
	if field.CanAddr() {
		u, _ := field.Addr().Interface().(encoding.TextUnmarshaler)
		return u
	}
	return nil
}

// setFieldValue sets field from a query string value.
func setFieldValue(field reflect.Value, value string) error {
	if u := textUnmarshaler(field); u != nil {
		return u.UnmarshalText([]byte(value))
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value == "" {
			return nil
		}
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if value == "" {
			return nil
		}
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if value == "" {
			return nil
		}
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		if value == "" {
			return nil
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}
