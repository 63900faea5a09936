package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestExecuteQueryEngineError(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer mockDB.Close()

	db := &DB{conn: mockDB}

	const badSQL = "SELECT nope FROM pokemon"
	mock.ExpectQuery(badSQL).WillReturnError(errors.New(`Binder Error: column "nope" not found`))

	_, err = db.ExecuteQuery(context.Background(), badSQL)

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if !strings.Contains(execErr.Error(), badSQL) {
		t.Errorf("error message should carry the failing SQL, got %q", execErr.Error())
	}
	if !strings.Contains(execErr.Error(), "Binder Error") {
		t.Errorf("error message should carry the engine diagnostic, got %q", execErr.Error())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestExecuteQueryGateRejectsBeforeEngine(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer mockDB.Close()

	// No expectations registered: if the statement reached the store,
	// ExpectationsWereMet would report the surprise call.
	db := &DB{conn: mockDB}

	_, err = db.ExecuteQuery(context.Background(), "INSERT INTO pokemon VALUES (1)")
	if !errors.Is(err, ErrNotReadOnly) {
		t.Fatalf("expected ErrNotReadOnly, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("statement leaked past the gate: %v", err)
	}
}

func TestExecuteQueryScansRows(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer mockDB.Close()

	db := &DB{conn: mockDB}

	const query = "SELECT name, speed FROM pokemon ORDER BY speed DESC LIMIT 2"
	mock.ExpectQuery(query).WillReturnRows(
		sqlmock.NewRows([]string{"name", "speed"}).
			AddRow([]byte("붐볼"), int64(150)).
			AddRow([]byte("쥬피썬더"), int64(130)))

	rs, err := db.ExecuteQuery(context.Background(), query)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if len(rs.Columns) != 2 || rs.Columns[0] != "name" {
		t.Errorf("columns = %v", rs.Columns)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rs.Rows))
	}
	// []byte cells come back as strings.
	if rs.Rows[0][0] != "붐볼" {
		t.Errorf("row 0 name = %v (%T), want string 붐볼", rs.Rows[0][0], rs.Rows[0][0])
	}
	if rs.Rows[0][1] != int64(150) {
		t.Errorf("row 0 speed = %v, want 150", rs.Rows[0][1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
