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
	"fmt"

	"github.com/wso2/identity-contact-resolution-service/internal/contact/model"
	"github.com/wso2/identity-contact-resolution-service/internal/contact/store"
	"github.com/wso2/identity-contact-resolution-service/internal/system/constants"
	errors2 "github.com/wso2/identity-contact-resolution-service/internal/system/errors"
	"github.com/wso2/identity-contact-resolution-service/internal/system/log"
)

// ReconcilerInterface consolidates an identity observation against the
// matched candidate set, merging clusters and appending new information.
type ReconcilerInterface interface {
	Reconcile(email, phone *string, candidates []model.Contact) (*model.ConsolidatedIdentity, error)
}

// Reconciler is the default implementation of the ReconcilerInterface.
type Reconciler struct {
	store store.ContactStoreInterface
}

// NewReconciler creates a reconciler over the given contact store. The store
// is expected to be transaction-scoped; the reconciler itself never commits.
func NewReconciler(contactStore store.ContactStoreInterface) ReconcilerInterface {

	return &Reconciler{store: contactStore}
}

// Reconcile decides whether the observation is a brand-new customer, new
// information for an existing cluster, or a merge trigger across clusters,
// and returns the consolidated view of the resulting cluster.
func (r *Reconciler) Reconcile(email, phone *string, candidates []model.Contact) (*model.ConsolidatedIdentity, error) {

	logger := log.GetLogger()

	if len(candidates) == 0 {
		contact, err := r.store.InsertContact(email, phone, nil, constants.LinkPrecedencePrimary)
		if err != nil {
			return nil, err
		}
		logger.Debug("Created new primary contact", log.Int64("contactId", contact.ID))
		return newContactIdentity(contact), nil
	}

	// Resolve the distinct clusters touched by the match and pick the
	// earliest-created primary as the survivor.
	primaryIDs := EffectivePrimaryIDs(candidates)
	creations, err := r.store.GetCreationTimes(primaryIDs)
	if err != nil {
		return nil, err
	}
	if len(creations) == 0 {
		err := fmt.Errorf("no creation times found for primary ids %v", primaryIDs)
		logger.Error(err.Error())
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.INCONSISTENT_CLUSTER.Code,
			Message:     errors2.INCONSISTENT_CLUSTER.Message,
			Description: "Matched candidates reference primaries that do not exist.",
		}, err)
	}

	survivingPrimaryID := creations[0].ID
	for _, demoted := range creations[1:] {
		if err := r.store.UpdateContactLinkage(demoted.ID, survivingPrimaryID); err != nil {
			return nil, err
		}
		logger.Info("Merged contact cluster", log.Int64("demotedPrimaryId", demoted.ID),
			log.Int64("survivingPrimaryId", survivingPrimaryID))
	}

	if hasNewInformation(candidates, email, phone) {
		linkedID := survivingPrimaryID
		secondary, err := r.store.InsertContact(email, phone, &linkedID, constants.LinkPrecedenceSecondary)
		if err != nil {
			return nil, err
		}
		logger.Debug("Created secondary contact", log.Int64("contactId", secondary.ID),
			log.Int64("survivingPrimaryId", survivingPrimaryID))
	}

	members, err := r.store.GetClusterMembers(survivingPrimaryID)
	if err != nil {
		return nil, err
	}

	return assembleIdentity(members, survivingPrimaryID)
}

// EffectivePrimaryIDs collects the distinct cluster primaries referenced by
// the candidate set, preserving candidate order.
func EffectivePrimaryIDs(candidates []model.Contact) []int64 {

	seen := make(map[int64]bool)
	ids := make([]int64, 0, len(candidates))
	for _, candidate := range candidates {
		primaryID := candidate.EffectivePrimaryID()
		if !seen[primaryID] {
			seen[primaryID] = true
			ids = append(ids, primaryID)
		}
	}
	return ids
}

// hasNewInformation reports whether the observation carries an email or
// phone value not already present among the matched candidates.
func hasNewInformation(candidates []model.Contact, email, phone *string) bool {

	emailExists := email == nil
	phoneExists := phone == nil
	for _, candidate := range candidates {
		if email != nil && candidate.Email != nil && *candidate.Email == *email {
			emailExists = true
		}
		if phone != nil && candidate.PhoneNumber != nil && *candidate.PhoneNumber == *phone {
			phoneExists = true
		}
	}
	return !emailExists || !phoneExists
}

// newContactIdentity builds the consolidated view of a freshly created
// single-member cluster.
func newContactIdentity(contact model.Contact) *model.ConsolidatedIdentity {

	identity := &model.ConsolidatedIdentity{
		PrimaryContactID:    contact.ID,
		Emails:              []string{},
		PhoneNumbers:        []string{},
		SecondaryContactIDs: []int64{},
	}
	if contact.Email != nil {
		identity.Emails = append(identity.Emails, *contact.Email)
	}
	if contact.PhoneNumber != nil {
		identity.PhoneNumbers = append(identity.PhoneNumbers, *contact.PhoneNumber)
	}
	return identity
}

// assembleIdentity builds the consolidated view from cluster members ordered
// by ascending creation time. The surviving primary's own email and phone
// are hoisted to the front of their lists.
func assembleIdentity(members []model.Contact, survivingPrimaryID int64) (*model.ConsolidatedIdentity, error) {

	var survivor *model.Contact
	for i := range members {
		if members[i].ID == survivingPrimaryID {
			survivor = &members[i]
			break
		}
	}
	if survivor == nil {
		err := fmt.Errorf("surviving primary %d missing from cluster members", survivingPrimaryID)
		log.GetLogger().Error(err.Error())
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.INCONSISTENT_CLUSTER.Code,
			Message:     errors2.INCONSISTENT_CLUSTER.Message,
			Description: "Cluster re-read did not contain the surviving primary.",
		}, err)
	}

	identity := &model.ConsolidatedIdentity{
		PrimaryContactID:    survivingPrimaryID,
		Emails:              []string{},
		PhoneNumbers:        []string{},
		SecondaryContactIDs: []int64{},
	}

	emailSeen := make(map[string]bool)
	phoneSeen := make(map[string]bool)
	if survivor.Email != nil {
		identity.Emails = append(identity.Emails, *survivor.Email)
		emailSeen[*survivor.Email] = true
	}
	if survivor.PhoneNumber != nil {
		identity.PhoneNumbers = append(identity.PhoneNumbers, *survivor.PhoneNumber)
		phoneSeen[*survivor.PhoneNumber] = true
	}

	for _, member := range members {
		if member.Email != nil && !emailSeen[*member.Email] {
			identity.Emails = append(identity.Emails, *member.Email)
			emailSeen[*member.Email] = true
		}
		if member.PhoneNumber != nil && !phoneSeen[*member.PhoneNumber] {
			identity.PhoneNumbers = append(identity.PhoneNumbers, *member.PhoneNumber)
			phoneSeen[*member.PhoneNumber] = true
		}
		if member.ID != survivingPrimaryID {
			identity.SecondaryContactIDs = append(identity.SecondaryContactIDs, member.ID)
		}
	}

	return identity, nil
}
