/*
 * Copyright (c) 2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package client

import (
	"database/sql"
	"fmt"
	"os"
	"path"
	"strings"

	_ "github.com/lib/pq"
	"github.com/wso2/identity-contact-resolution-service/internal/system/log"
)

// QueryExecutor is the query surface shared by a plain connection and a
// transaction, so store code runs unchanged inside or outside a transaction.
type QueryExecutor interface {
	ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error)
}

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	QueryExecutor
	BeginTx() (TxInterface, error)
	InitDatabase(crsHome, file string) error
	Close() error
}

// TxInterface is a database transaction carrying the shared query surface.
type TxInterface interface {
	QueryExecutor
	Commit() error
	Rollback() error
}

type queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db *sql.DB
}

// TxClient wraps a sql.Tx with the shared query surface.
type TxClient struct {
	tx *sql.Tx
}

// NewDBClient creates a new instance of DBClient with the provided database connection.
func NewDBClient(db *sql.DB) DBClientInterface {

	return &DBClient{
		db: db,
	}
}

func (client *DBClient) InitDatabase(crsHome, file string) error {

	sqlBytes, err := os.ReadFile(path.Join(crsHome, file))
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	_, err = client.db.Exec(string(sqlBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	log.GetLogger().Info("Database schema created successfully")
	return nil
}

// ExecuteQuery executes a query and returns the result as a slice of maps.
func (client *DBClient) ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error) {

	return executeQuery(client.db, query, args...)
}

// BeginTx starts a new database transaction.
func (client *DBClient) BeginTx() (TxInterface, error) {

	tx, err := client.db.Begin()
	if err != nil {
		return nil, err
	}
	return &TxClient{tx: tx}, nil
}

// Close closes the database connection.
func (client *DBClient) Close() error {
	if os.Getenv("TEST_MODE") == "true" {
		return nil
	}
	return client.db.Close()
}

// ExecuteQuery executes a query within the transaction.
func (t *TxClient) ExecuteQuery(query string, args ...interface{}) ([]map[string]interface{}, error) {

	return executeQuery(t.tx, query, args...)
}

// Commit commits the transaction.
func (t *TxClient) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *TxClient) Rollback() error {
	return t.tx.Rollback()
}

func executeQuery(q queryer, query string, args ...interface{}) ([]map[string]interface{}, error) {

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		row := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range row {
			rowPointers[i] = &row[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, err
		}

		result := map[string]interface{}{}
		for i, col := range columns {
			// Normalize column names to lowercase for consistency.
			result[strings.ToLower(col)] = row[i]
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
