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

package lock

import (
	"fmt"
	"hash/fnv"

	"github.com/wso2/identity-contact-resolution-service/internal/system/database/client"
	"github.com/wso2/identity-contact-resolution-service/internal/system/database/scripts"
	"github.com/wso2/identity-contact-resolution-service/internal/system/errors"
	"github.com/wso2/identity-contact-resolution-service/internal/system/log"
)

// ClusterKey builds the advisory lock key for an existing contact cluster,
// keyed by its surviving primary id.
func ClusterKey(primaryID int64) string {
	return fmt.Sprintf("contact-cluster:%d", primaryID)
}

// IdentityKey builds the advisory lock key for a not-yet-stored identity, so
// duplicate rapid submissions of the same new contact serialize.
func IdentityKey(email, phone string) string {
	return fmt.Sprintf("contact-identity:%s|%s", email, phone)
}

// AcquireTransactionLock takes a transaction-scoped advisory lock for the
// given key. The lock is released when the enclosing transaction commits or
// rolls back. Blocks until the lock is granted.
func AcquireTransactionLock(tx client.TxInterface, key string) error {

	logger := log.GetLogger()
	lockID, err := generateLockKey(key)
	if err != nil {
		errorMsg := fmt.Sprintf("Could not create advisory lock key from '%s'.", key)
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
	}
	logger.Debug("Acquiring advisory lock", log.Int64("lockId", lockID))

	_, err = tx.ExecuteQuery(scripts.AcquireAdvisoryXactLock, lockID)
	if err != nil {
		errorMsg := "Failed to execute pg_advisory_xact_lock."
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}

// PostgreSQL advisory locks use bigint keys; string keys are hashed down.
func generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	if _, err := h.Write([]byte(key)); err != nil {
		return 0, err
	}
	return int64(h.Sum64()), nil
}
