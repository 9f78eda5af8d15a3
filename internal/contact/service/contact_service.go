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

package service

import (
	"net/http"

	"github.com/wso2/identity-contact-resolution-service/internal/contact/model"
	"github.com/wso2/identity-contact-resolution-service/internal/contact/store"
	"github.com/wso2/identity-contact-resolution-service/internal/system/database/lock"
	"github.com/wso2/identity-contact-resolution-service/internal/system/database/provider"
	errors2 "github.com/wso2/identity-contact-resolution-service/internal/system/errors"
	"github.com/wso2/identity-contact-resolution-service/internal/system/log"
)

// ContactServiceInterface is the boundary exposed to the transport layer.
type ContactServiceInterface interface {
	Identify(request model.IdentifyRequest) (*model.ConsolidatedIdentity, error)
}

// ContactService is the default implementation of the ContactServiceInterface.
type ContactService struct{}

// GetContactService creates a new instance of ContactService.
func GetContactService() ContactServiceInterface {

	return &ContactService{}
}

// Identify normalizes the observation, matches it against stored contacts and
// reconciles the result inside one transaction, so a concurrent reconciliation
// touching overlapping contacts observes either the pre-merge or the
// post-merge state, never an intermediate one.
func (cs *ContactService) Identify(request model.IdentifyRequest) (*model.ConsolidatedIdentity, error) {

	email := NormalizeEmail(request.Email)
	phone := NormalizePhone(request.PhoneNumber)
	if email == nil && phone == nil {
		return nil, errors2.NewClientError(errors2.MISSING_IDENTIFIERS, http.StatusBadRequest)
	}

	logger := log.GetLogger()
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := "Failed to get database client for contact identification."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DB_CLIENT_INIT.Code,
			Message:     errors2.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := "Failed to start transaction for contact identification."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.TX_BEGIN.Code,
			Message:     errors2.TX_BEGIN.Message,
			Description: errorMsg,
		}, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	txStore := store.NewContactStore(tx)
	matcher := NewContactMatcher(txStore)

	candidates, err := matcher.FindCandidates(email, phone)
	if err != nil {
		return nil, err
	}

	lockKey, err := reconcileLockKey(txStore, candidates, email, phone)
	if err != nil {
		return nil, err
	}
	if err := lock.AcquireTransactionLock(tx, lockKey); err != nil {
		return nil, err
	}

	// Re-read after the lock: a concurrent reconciliation holding it may
	// have committed a merge or created the contact this request races on.
	candidates, err = matcher.FindCandidates(email, phone)
	if err != nil {
		return nil, err
	}

	reconciler := NewReconciler(txStore)
	identity, err := reconciler.Reconcile(email, phone, candidates)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		errorMsg := "Failed to commit contact identification transaction."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.TX_COMMIT.Code,
			Message:     errors2.TX_COMMIT.Message,
			Description: errorMsg,
		}, err)
	}
	committed = true

	return identity, nil
}

// reconcileLockKey picks the advisory lock key for this reconciliation: the
// surviving primary id when the observation touches existing clusters, or
// the normalized identifier pair when the identity is brand new.
func reconcileLockKey(txStore store.ContactStoreInterface, candidates []model.Contact, email, phone *string) (string, error) {

	if len(candidates) == 0 {
		return lock.IdentityKey(stringValue(email), stringValue(phone)), nil
	}

	primaryIDs := EffectivePrimaryIDs(candidates)
	creations, err := txStore.GetCreationTimes(primaryIDs)
	if err != nil {
		return "", err
	}
	if len(creations) == 0 {
		return lock.IdentityKey(stringValue(email), stringValue(phone)), nil
	}
	return lock.ClusterKey(creations[0].ID), nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
