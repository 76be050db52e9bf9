package record

import "time"

// Row fila cruda del store remoto: campos opcionales y tipado débil. Los
// accessors aplican defaults para que cada mapper los enumere una sola vez.
type Row map[string]any

// String devuelve el campo como string ("" si falta o no es string).
func (r Row) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// StringOr devuelve el campo como string o def si falta/está vacío.
func (r Row) StringOr(key, def string) string {
	if s := r.String(key); s != "" {
		return s
	}
	return def
}

// Int devuelve el campo numérico como int (0 si falta). Tolera los tipos
// numéricos con que los drivers y el JSON decodifican.
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Int64 como Int pero en 64 bits (tamaños de archivo).
func (r Row) Int64(key string) int64 {
	switch v := r[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// Bool devuelve el campo como bool (false si falta).
func (r Row) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Strings devuelve el campo como slice de strings (nil si falta).
func (r Row) Strings(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Time devuelve el campo como time.Time (cero si falta). Acepta time.Time
// directo o RFC 3339.
func (r Row) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// TimePtr como Time pero nil si el campo falta o es inválido.
func (r Row) TimePtr(key string) *time.Time {
	t := r.Time(key)
	if t.IsZero() {
		return nil
	}
	return &t
}

// Clone copia superficial de la fila (los adaptadores en memoria la usan para
// no compartir el mapa interno con los llamadores).
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
