package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
)

// scriptedQuerier registra las sentencias y responde según su prefijo.
type scriptedQuerier struct {
	sql        []string
	insertErr  error
	archive    string
	rollbackTo error
}

func (q *scriptedQuerier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	sql = strings.TrimSpace(sql)
	q.sql = append(q.sql, firstWords(sql))
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		return pgconn.CommandTag{}, q.insertErr
	case strings.HasPrefix(sql, "ROLLBACK TO"):
		return pgconn.CommandTag{}, q.rollbackTo
	}
	return pgconn.CommandTag{}, nil
}

func (q *scriptedQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no usado")
}

func (q *scriptedQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.sql = append(q.sql, firstWords(strings.TrimSpace(sql)))
	return archiveRow{archive: q.archive}
}

type archiveRow struct{ archive string }

func (r archiveRow) Scan(dest ...any) error {
	if r.archive == "" {
		return pgx.ErrNoRows
	}
	*dest[0].(*string) = r.archive
	return nil
}

func firstWords(sql string) string {
	f := strings.Fields(sql)
	if len(f) > 3 {
		f = f[:3]
	}
	return strings.Join(f, " ")
}

func header() *entity.DocumentHeader {
	return &entity.DocumentHeader{
		Key:       entity.DocumentKey{Company: "MOLINO", DocumentType: "FP", IssuerCode: "P0001", EmissionPoint: "0003", Number: "00012345"},
		ArchiveID: "8",
	}
}

func TestInsertHeader_OK(t *testing.T) {
	q := &scriptedQuerier{}
	require.NoError(t, NewDocumentRepository(q).InsertHeader(context.Background(), header()))
	assert.Equal(t, []string{"SAVEPOINT cabecera", "INSERT INTO ismst_documentos_cab", "RELEASE SAVEPOINT cabecera"}, q.sql)
}

func TestInsertHeader_IndiceUnicoInformaArchivo(t *testing.T) {
	// Caso 1: la constraint rechaza el alta; se vuelve al savepoint y se informa el archivo existente.
	q := &scriptedQuerier{insertErr: &pgconn.PgError{Code: "23505"}, archive: "5"}
	err := NewDocumentRepository(q).InsertHeader(context.Background(), header())

	var dup *domain.DuplicateDocumentError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "5", dup.ArchiveID)
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
	assert.Equal(t, []string{
		"SAVEPOINT cabecera", "INSERT INTO ismst_documentos_cab", "ROLLBACK TO SAVEPOINT", "SELECT trim(d.nro_archivo) FROM",
	}, q.sql)

	// Caso 2: sin poder volver al savepoint queda el duplicado sin número.
	q = &scriptedQuerier{insertErr: &pgconn.PgError{Code: "23505"}, rollbackTo: errors.New("conn closed")}
	err = NewDocumentRepository(q).InsertHeader(context.Background(), header())
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)
	assert.False(t, errors.As(err, &dup))
}

func TestInsertHeader_OtroError(t *testing.T) {
	q := &scriptedQuerier{insertErr: errors.New("disk full")}
	err := NewDocumentRepository(q).InsertHeader(context.Background(), header())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicateDocument)
	assert.Contains(t, err.Error(), "insert document header")
}
