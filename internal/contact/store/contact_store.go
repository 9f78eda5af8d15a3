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

package store

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wso2/identity-contact-resolution-service/internal/contact/model"
	"github.com/wso2/identity-contact-resolution-service/internal/system/database/client"
	"github.com/wso2/identity-contact-resolution-service/internal/system/database/scripts"
	errors2 "github.com/wso2/identity-contact-resolution-service/internal/system/errors"
	"github.com/wso2/identity-contact-resolution-service/internal/system/log"
)

// ContactStoreInterface is the store-access contract for the contact table.
// Soft-deleted rows (deleted_at set) are not excluded by any of these reads;
// that behavior is inherited from the source system and left unresolved.
type ContactStoreInterface interface {
	GetContactsByEmailOrPhone(email, phone *string) ([]model.Contact, error)
	InsertContact(email, phone *string, linkedID *int64, precedence string) (model.Contact, error)
	UpdateContactLinkage(demotedPrimaryID, survivingPrimaryID int64) error
	GetClusterMembers(primaryID int64) ([]model.Contact, error)
	GetCreationTimes(ids []int64) ([]model.ContactCreation, error)
}

// ContactStore runs the contact queries against the given executor, which may
// be a plain database client or an open transaction.
type ContactStore struct {
	qx client.QueryExecutor
}

// NewContactStore creates a contact store bound to the given query executor.
func NewContactStore(qx client.QueryExecutor) ContactStoreInterface {

	return &ContactStore{qx: qx}
}

// GetContactsByEmailOrPhone returns every contact whose email or phone number
// exactly equals a supplied non-nil value. Purely a read.
func (cs *ContactStore) GetContactsByEmailOrPhone(email, phone *string) ([]model.Contact, error) {

	logger := log.GetLogger()
	results, err := cs.qx.ExecuteQuery(scripts.QueryContactsByEmailOrPhone, email, phone)
	if err != nil {
		errorMsg := "Error occurred while querying contacts by email or phone."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONTACTS.Code,
			Message:     errors2.FETCH_CONTACTS.Message,
			Description: errorMsg,
		}, err)
	}

	return contactsFromRows(results)
}

// InsertContact creates a contact row and returns it with the store-assigned
// id and timestamps.
func (cs *ContactStore) InsertContact(email, phone *string, linkedID *int64, precedence string) (model.Contact, error) {

	logger := log.GetLogger()
	results, err := cs.qx.ExecuteQuery(scripts.InsertContact, email, phone, linkedID, precedence)
	if err != nil {
		errorMsg := "Error occurred while inserting contact."
		logger.Debug(errorMsg, log.Error(err))
		return model.Contact{}, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.INSERT_CONTACT.Code,
			Message:     errors2.INSERT_CONTACT.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		err := fmt.Errorf("insert returned no row")
		return model.Contact{}, errors2.NewServerError(errors2.ErrorMessage{
			Code:    errors2.INSERT_CONTACT.Code,
			Message: errors2.INSERT_CONTACT.Message,
		}, err)
	}

	row := results[0]
	contact := model.Contact{
		ID:             row["id"].(int64),
		Email:          email,
		PhoneNumber:    phone,
		LinkedID:       linkedID,
		LinkPrecedence: precedence,
		CreatedAt:      row["created_at"].(time.Time),
		UpdatedAt:      row["updated_at"].(time.Time),
	}

	logger.Debug("Contact inserted", log.Int64("contactId", contact.ID),
		log.String("linkPrecedence", precedence))
	return contact, nil
}

// UpdateContactLinkage demotes a primary under the surviving primary and
// repoints every contact that pointed at it, bumping updated_at. One
// statement, so the relink leaves no dangling chains mid-merge.
func (cs *ContactStore) UpdateContactLinkage(demotedPrimaryID, survivingPrimaryID int64) error {

	logger := log.GetLogger()
	_, err := cs.qx.ExecuteQuery(scripts.UpdateContactLinkage, survivingPrimaryID, demotedPrimaryID)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while relinking contact %d under %d.",
			demotedPrimaryID, survivingPrimaryID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_CONTACT_LINKAGE.Code,
			Message:     errors2.UPDATE_CONTACT_LINKAGE.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Debug("Contact cluster relinked", log.Int64("demotedId", demotedPrimaryID),
		log.Int64("survivingPrimaryId", survivingPrimaryID))
	return nil
}

// GetClusterMembers returns the primary and all of its secondaries in
// ascending creation order.
func (cs *ContactStore) GetClusterMembers(primaryID int64) ([]model.Contact, error) {

	logger := log.GetLogger()
	results, err := cs.qx.ExecuteQuery(scripts.QueryClusterMembers, primaryID)
	if err != nil {
		errorMsg := fmt.Sprintf("Error occurred while fetching cluster members for primary %d.", primaryID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONTACTS.Code,
			Message:     errors2.FETCH_CONTACTS.Message,
			Description: errorMsg,
		}, err)
	}

	return contactsFromRows(results)
}

// GetCreationTimes returns creation timestamps for the given contact ids in
// ascending creation order, ties broken by ascending id.
func (cs *ContactStore) GetCreationTimes(ids []int64) ([]model.ContactCreation, error) {

	logger := log.GetLogger()
	results, err := cs.qx.ExecuteQuery(scripts.QueryCreationTimes, pq.Array(ids))
	if err != nil {
		errorMsg := "Error occurred while fetching contact creation times."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONTACTS.Code,
			Message:     errors2.FETCH_CONTACTS.Message,
			Description: errorMsg,
		}, err)
	}

	creations := make([]model.ContactCreation, 0, len(results))
	for _, row := range results {
		creations = append(creations, model.ContactCreation{
			ID:        row["id"].(int64),
			CreatedAt: row["created_at"].(time.Time),
		})
	}
	return creations, nil
}

func contactsFromRows(results []map[string]interface{}) ([]model.Contact, error) {

	contacts := make([]model.Contact, 0, len(results))
	for _, row := range results {
		var contact model.Contact
		contact.ID = row["id"].(int64)
		contact.Email = stringColumn(row["email"])
		contact.PhoneNumber = stringColumn(row["phone_number"])
		contact.LinkedID = int64Column(row["linked_id"])
		contact.LinkPrecedence = row["link_precedence"].(string)
		contact.CreatedAt = row["created_at"].(time.Time)
		contact.UpdatedAt = row["updated_at"].(time.Time)
		contact.DeletedAt = timeColumn(row["deleted_at"])

		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func stringColumn(value interface{}) *string {
	switch v := value.(type) {
	case string:
		return &v
	case []byte:
		s := string(v)
		return &s
	}
	return nil
}

func int64Column(value interface{}) *int64 {
	if v, ok := value.(int64); ok {
		return &v
	}
	return nil
}

func timeColumn(value interface{}) *time.Time {
	if v, ok := value.(time.Time); ok {
		return &v
	}
	return nil
}
