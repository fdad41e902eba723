package companies

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
)

func setupService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, logger.NewTestLogger(t)), mock
}

func companyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "industry", "location", "website", "created_at"})
}

func TestCreate(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO company")).
		WithArgs("Acme", "Logistics", "Berlin", "https://acme.example").
		WillReturnRows(companyRows().AddRow(
			int64(3), "Acme", "Logistics", "Berlin", "https://acme.example", time.Now(),
		))

	got, err := svc.Create(context.Background(), &CreateInput{
		Name:     "Acme",
		Industry: "Logistics",
		Location: "Berlin",
		Website:  "https://acme.example",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM company WHERE id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(companyRows())

	_, err := svc.Get(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestList(t *testing.T) {
	tests := []struct {
		name      string
		filter    Filter
		wantQuery string
		wantArgs  []driver.Value
	}{
		{
			name:      "no filters",
			filter:    Filter{},
			wantQuery: "FROM company ORDER BY name ASC OFFSET $1 LIMIT $2",
			wantArgs:  []driver.Value{int64(0), int64(50)},
		},
		{
			name:      "location filter",
			filter:    Filter{Location: "Berlin"},
			wantQuery: "WHERE location = $1 ORDER BY name ASC OFFSET $2 LIMIT $3",
			wantArgs:  []driver.Value{"Berlin", int64(0), int64(50)},
		},
		{
			name:      "q over name industry location",
			filter:    Filter{Q: "log"},
			wantQuery: "(name LIKE $1 OR industry LIKE $1 OR location LIKE $1)",
			wantArgs:  []driver.Value{"%log%", int64(0), int64(50)},
		},
		{
			name:      "pagination",
			filter:    Filter{Limit: 10, Offset: 20},
			wantQuery: "ORDER BY name ASC OFFSET $1 LIMIT $2",
			wantArgs:  []driver.Value{int64(20), int64(10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := setupService(t)

			mock.ExpectQuery(regexp.QuoteMeta(tt.wantQuery)).
				WithArgs(tt.wantArgs...).
				WillReturnRows(companyRows().
					AddRow(int64(1), "Acme", "Logistics", "Berlin", "", time.Now()))

			got, err := svc.List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Acme", got[0].Name)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestList_Empty(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM company")).
		WillReturnRows(companyRows())

	got, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
