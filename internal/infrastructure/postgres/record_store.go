package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/projectdesk/api/internal/domain"
	"github.com/projectdesk/api/internal/domain/record"
)

var _ record.Store = (*RecordStore)(nil)

// Querier lo satisfacen pgxpool.Pool y pgx.Tx; permite usar el adaptador
// dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// relColumns columnas conocidas por relación. Funciona de whitelist: ningún
// identificador llega al SQL sin pasar por aquí.
var relColumns = map[string]map[string]bool{
	record.RelProjects: cols("id", "title", "description", "client_id", "client_name",
		"deadline", "progress_percentage", "assigned_employees", "status", "priority",
		"project_type", "created_at"),
	record.RelStages: cols("id", "project_id", "name", "notes", "progress_percentage",
		"approval_status", "order"),
	record.RelTasks: cols("id", "project_id", "title", "description", "assigned_to",
		"created_by", "status", "priority", "deadline", "created_at", "updated_at"),
	record.RelCommentTasks: cols("id", "stage_id", "project_id", "text", "added_by",
		"author_name", "author_role", "status", "assigned_to", "deadline", "timestamp"),
	record.RelComments: cols("id", "project_id", "text", "added_by", "author_name",
		"author_role", "timestamp"),
	record.RelFiles: cols("id", "stage_id", "project_id", "filename", "external_ref",
		"view_url", "uploaded_by", "uploader_name", "timestamp", "size", "mime_type",
		"category", "description", "download_count", "last_downloaded",
		"last_downloaded_by", "is_archived", "tags"),
	record.RelOverviews: cols("project_id", "content", "created_by", "created_at", "updated_at"),
	record.RelProfiles:  cols("id", "email", "password_hash", "full_name", "role", "created_at"),
}

func cols(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// RecordStore implementación de record.Store sobre PostgreSQL (pool o tx).
type RecordStore struct {
	q Querier
}

// NewRecordStore construye el adaptador. Pasar pool o tx (Querier).
func NewRecordStore(q Querier) *RecordStore {
	return &RecordStore{q: q}
}

// Select ejecuta la lectura filtrada y devuelve filas genéricas.
func (s *RecordStore) Select(ctx context.Context, q record.Query) ([]record.Row, error) {
	sql, args, err := BuildSelect(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, &domain.StoreUnavailableError{Relation: q.Relation, Err: err}
	}
	defer rows.Close()
	out, err := collectRows(rows)
	if err != nil {
		return nil, &domain.StoreUnavailableError{Relation: q.Relation, Err: err}
	}
	return out, nil
}

// Insert inserta la fila y devuelve la versión persistida (con defaults de la DB).
func (s *RecordStore) Insert(ctx context.Context, relation string, row record.Row) (record.Row, error) {
	sql, args, err := buildInsert(relation, row)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, &domain.StoreUnavailableError{Relation: relation, Err: err}
	}
	defer rows.Close()
	return collectOne(relation, rows)
}

// Update aplica el patch por clave y devuelve la fila resultante.
func (s *RecordStore) Update(ctx context.Context, relation, id string, patch record.Row) (record.Row, error) {
	sql, args, err := buildUpdate(relation, id, patch)
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, &domain.StoreUnavailableError{Relation: relation, Err: err}
	}
	defer rows.Close()
	return collectOne(relation, rows)
}

// Delete elimina la fila por clave. Borrar lo inexistente no es error.
func (s *RecordStore) Delete(ctx context.Context, relation, id string) error {
	key, err := safeColumn(relation, record.KeyField(relation))
	if err != nil {
		return err
	}
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, quoteIdent(relation), key)
	if _, err := s.q.Exec(ctx, sql, id); err != nil {
		return &domain.StoreUnavailableError{Relation: relation, Err: err}
	}
	return nil
}

// BuildSelect construye el SELECT con placeholders. Exportada para testearla
// sin base de datos.
func BuildSelect(q record.Query) (string, []any, error) {
	if _, ok := relColumns[q.Relation]; !ok {
		return "", nil, fmt.Errorf("relación desconocida: %s", q.Relation)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `SELECT * FROM %s`, quoteIdent(q.Relation))
	args := make([]any, 0, len(q.Filters))
	for i, f := range q.Filters {
		col, err := safeColumn(q.Relation, f.Field)
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, filterArg(f))
		switch f.Op {
		case record.OpEq:
			fmt.Fprintf(&sb, "%s = $%d", col, len(args))
		case record.OpIn:
			fmt.Fprintf(&sb, "%s = ANY($%d)", col, len(args))
		case record.OpContains:
			fmt.Fprintf(&sb, "%s @> ARRAY[$%d]", col, len(args))
		default:
			return "", nil, fmt.Errorf("operador desconocido: %s", f.Op)
		}
	}
	if q.OrderBy != nil {
		col, err := safeColumn(q.Relation, q.OrderBy.Field)
		if err != nil {
			return "", nil, err
		}
		dir := "ASC"
		if q.OrderBy.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", col, dir)
	}
	return sb.String(), args, nil
}

func filterArg(f record.Filter) any {
	if f.Op == record.OpIn {
		// ANY exige el slice, no los elementos sueltos
		if vals, ok := f.Value.([]string); ok {
			return vals
		}
	}
	return f.Value
}

func buildInsert(relation string, row record.Row) (string, []any, error) {
	if _, ok := relColumns[relation]; !ok {
		return "", nil, fmt.Errorf("relación desconocida: %s", relation)
	}
	// Orden determinista de columnas para SQL reproducible
	names := make([]string, 0, len(row))
	for k := range row {
		names = append(names, k)
	}
	sort.Strings(names)

	quoted := make([]string, 0, len(names))
	holders := make([]string, 0, len(names))
	args := make([]any, 0, len(names))
	for _, n := range names {
		col, err := safeColumn(relation, n)
		if err != nil {
			return "", nil, err
		}
		quoted = append(quoted, col)
		args = append(args, row[n])
		holders = append(holders, fmt.Sprintf("$%d", len(args)))
	}
	sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING *`,
		quoteIdent(relation), strings.Join(quoted, ", "), strings.Join(holders, ", "))
	return sql, args, nil
}

func buildUpdate(relation, id string, patch record.Row) (string, []any, error) {
	if _, ok := relColumns[relation]; !ok {
		return "", nil, fmt.Errorf("relación desconocida: %s", relation)
	}
	names := make([]string, 0, len(patch))
	for k := range patch {
		names = append(names, k)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for _, n := range names {
		col, err := safeColumn(relation, n)
		if err != nil {
			return "", nil, err
		}
		args = append(args, patch[n])
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	key, err := safeColumn(relation, record.KeyField(relation))
	if err != nil {
		return "", nil, err
	}
	args = append(args, id)
	sql := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING *`,
		quoteIdent(relation), strings.Join(sets, ", "), key, len(args))
	return sql, args, nil
}

func safeColumn(relation, name string) (string, error) {
	if !relColumns[relation][name] {
		return "", fmt.Errorf("columna desconocida en %s: %s", relation, name)
	}
	return quoteIdent(name), nil
}

// quoteIdent cita el identificador ("order" es palabra reservada).
func quoteIdent(name string) string {
	return `"` + name + `"`
}

func collectRows(rows pgx.Rows) ([]record.Row, error) {
	fields := rows.FieldDescriptions()
	var out []record.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		r := make(record.Row, len(fields))
		for i, fd := range fields {
			r[string(fd.Name)] = values[i]
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// collectOne recoge la única fila del RETURNING. Con Query el error del
// comando llega diferido en rows.Err(), así que la violación de unicidad
// debe mapearse aquí, no solo sobre el error inmediato de Query.
func collectOne(relation string, rows pgx.Rows) (record.Row, error) {
	out, err := collectRows(rows)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, &domain.StoreUnavailableError{Relation: relation, Err: err}
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return out[0], nil
}
