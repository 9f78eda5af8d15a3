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

package integration

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/wso2/identity-contact-resolution-service/internal/system/config"
	syslog "github.com/wso2/identity-contact-resolution-service/internal/system/log"
	"github.com/wso2/identity-contact-resolution-service/test/setup"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	pg, err := setup.SetupTestPostgres(ctx)
	if err != nil {
		log.Fatalf("Failed to start test postgres: %v", err)
	}
	defer func() {
		_ = pg.Container.Terminate(ctx)
	}()
	testDB = pg.DB

	schema, err := os.ReadFile("../../dbscripts/contact.sql")
	if err != nil {
		log.Fatalf("Failed to read contact schema: %v", err)
	}
	if _, err := testDB.Exec(string(schema)); err != nil {
		log.Fatalf("Failed to apply contact schema: %v", err)
	}

	config.OverrideCRSRuntime(config.Config{
		Log:        config.LogConfig{LogLevel: "ERROR"},
		DataSource: pg.DataSource,
	})
	if err := syslog.Init("ERROR"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	return m.Run()
}
