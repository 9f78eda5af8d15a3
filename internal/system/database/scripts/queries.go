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

package scripts

// Contact table queries. The soft-delete column deleted_at is intentionally
// not consulted here; whether soft-deleted contacts should be excluded from
// matching is an unresolved requirement carried over from the source system.
const (
	// QueryContactsByEmailOrPhone returns every contact whose email or phone
	// exactly equals a supplied value. NULL arguments never match.
	QueryContactsByEmailOrPhone = `
		SELECT id, email, phone_number, linked_id, link_precedence, created_at, updated_at, deleted_at
		FROM contact
		WHERE email = $1 OR phone_number = $2
		ORDER BY created_at ASC, id ASC`

	// InsertContact creates a contact row and returns the store-assigned id
	// and timestamps.
	InsertContact = `
		INSERT INTO contact (email, phone_number, linked_id, link_precedence)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	// UpdateContactLinkage demotes a primary to secondary under the surviving
	// primary and repoints every contact that linked to it, in one statement,
	// so no transitive chains are left dangling.
	UpdateContactLinkage = `
		UPDATE contact
		SET link_precedence = 'secondary', linked_id = $1, updated_at = now()
		WHERE id = $2 OR linked_id = $2`

	// QueryClusterMembers returns a primary and all of its secondaries in
	// ascending creation order, ties broken by ascending id.
	QueryClusterMembers = `
		SELECT id, email, phone_number, linked_id, link_precedence, created_at, updated_at, deleted_at
		FROM contact
		WHERE id = $1 OR linked_id = $1
		ORDER BY created_at ASC, id ASC`

	// QueryCreationTimes returns creation timestamps for the given ids in
	// ascending creation order, ties broken by ascending id.
	QueryCreationTimes = `
		SELECT id, created_at
		FROM contact
		WHERE id = ANY($1)
		ORDER BY created_at ASC, id ASC`

	// AcquireAdvisoryXactLock blocks until the transaction-scoped advisory
	// lock for the given key is granted.
	AcquireAdvisoryXactLock = `SELECT pg_advisory_xact_lock($1)`
)
