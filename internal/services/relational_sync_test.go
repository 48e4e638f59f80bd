package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"distance-matrix-service/internal/adapters/store"
	"distance-matrix-service/internal/domain"
)

func syncFixture() (*domain.DistanceMatrix, []domain.Location, []domain.Location) {
	origins := []domain.Location{
		{Kind: domain.KindAddress, Label: "Rotterdam", Address: "Rotterdam, Netherlands"},
		{Kind: domain.KindCoordinates, Label: "Antwerp", Coords: domain.Coordinates{Lat: 51.2194, Lng: 4.4025}},
	}
	destinations := []domain.Location{
		{Kind: domain.KindAddress, Label: "Hamburg", Address: "Hamburg, Germany"},
		{Kind: domain.KindAddress, Label: "Bremerhaven", Address: "Bremerhaven, Germany"},
	}

	m := &domain.DistanceMatrix{
		OriginLabels:      []string{"Rotterdam", "Antwerp"},
		DestinationLabels: []string{"Hamburg", "Bremerhaven"},
		Cells: [][]domain.Cell{
			{
				{OK: true, Status: domain.StatusOK, DistanceKm: 491.0, DurationMin: 291.0},
				{OK: true, Status: domain.StatusOK, DistanceKm: 416.0, DurationMin: 249.0},
			},
			{
				{OK: false, Status: domain.StatusNotFound},
				{OK: true, Status: domain.StatusOK, DistanceKm: 475.0, DurationMin: 283.0},
			},
		},
	}

	return m, origins, destinations
}

func TestSyncMatrixWritesLocationsAndDistances(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	m, origins, destinations := syncFixture()
	fetchedAt := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO locations").
		WithArgs("Rotterdam", "Rotterdam, Netherlands", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO locations").
		WithArgs("Antwerp", "51.2194,4.4025", 51.2194, 4.4025).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO locations").
		WithArgs("Hamburg", "Hamburg, Germany", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO locations").
		WithArgs("Bremerhaven", "Bremerhaven, Germany", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Three distance rows: the sentinel cell at [1][0] is skipped.
	mock.ExpectExec("INSERT INTO distances").
		WithArgs("Rotterdam", "Hamburg", "abc123def456", 491.0, 291.0, fetchedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO distances").
		WithArgs("Rotterdam", "Bremerhaven", "abc123def456", 416.0, 249.0, fetchedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO distances").
		WithArgs("Antwerp", "Bremerhaven", "abc123def456", 475.0, 283.0, fetchedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = SyncMatrix(context.Background(), store.NewPostgresStore(db), m, origins, destinations, "abc123def456", fetchedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncMatrixRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	m, origins, destinations := syncFixture()
	boom := errors.New("constraint violation")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO locations").
		WithArgs("Rotterdam", "Rotterdam, Netherlands", nil, nil).
		WillReturnError(boom)
	mock.ExpectRollback()

	err = SyncMatrix(context.Background(), store.NewPostgresStore(db), m, origins, destinations, "abc123def456", time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped constraint error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncMatrixRejectsDimensionMismatch(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	m, origins, destinations := syncFixture()
	err = SyncMatrix(context.Background(), store.NewPostgresStore(db), m, origins[:1], destinations, "abc123def456", time.Now())
	if err == nil {
		t.Fatal("expected error for mismatched location counts")
	}
}
