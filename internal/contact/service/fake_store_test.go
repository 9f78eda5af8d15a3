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
	"os"
	"sort"
	"testing"
	"time"

	"github.com/wso2/identity-contact-resolution-service/internal/contact/model"
	"github.com/wso2/identity-contact-resolution-service/internal/system/constants"
	"github.com/wso2/identity-contact-resolution-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func strPtr(s string) *string { return &s }

// fakeContactStore is an in-memory stand-in for the contact store, so the
// matcher and reconciler can be exercised without a database.
type fakeContactStore struct {
	contacts map[int64]model.Contact
	nextID   int64
	clock    time.Time

	insertCalls int
	relinkCalls int

	// dropSurvivorOnReread simulates a cluster re-read that lost its primary.
	dropSurvivorOnReread bool
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{
		contacts: make(map[int64]model.Contact),
		nextID:   1,
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// seed inserts a contact with an explicit creation time, bypassing counters.
func (f *fakeContactStore) seed(email, phone *string, linkedID *int64, precedence string, createdAt time.Time) model.Contact {
	contact := model.Contact{
		ID:             f.nextID,
		Email:          email,
		PhoneNumber:    phone,
		LinkedID:       linkedID,
		LinkPrecedence: precedence,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	f.contacts[contact.ID] = contact
	f.nextID++
	return contact
}

func (f *fakeContactStore) GetContactsByEmailOrPhone(email, phone *string) ([]model.Contact, error) {
	var matched []model.Contact
	for _, contact := range f.contacts {
		emailMatch := email != nil && contact.Email != nil && *contact.Email == *email
		phoneMatch := phone != nil && contact.PhoneNumber != nil && *contact.PhoneNumber == *phone
		if emailMatch || phoneMatch {
			matched = append(matched, contact)
		}
	}
	sortByCreation(matched)
	return matched, nil
}

func (f *fakeContactStore) InsertContact(email, phone *string, linkedID *int64, precedence string) (model.Contact, error) {
	f.insertCalls++
	f.clock = f.clock.Add(time.Second)
	return f.seed(email, phone, linkedID, precedence, f.clock), nil
}

func (f *fakeContactStore) UpdateContactLinkage(demotedPrimaryID, survivingPrimaryID int64) error {
	f.relinkCalls++
	for id, contact := range f.contacts {
		if contact.ID == demotedPrimaryID || (contact.LinkedID != nil && *contact.LinkedID == demotedPrimaryID) {
			linked := survivingPrimaryID
			contact.LinkPrecedence = constants.LinkPrecedenceSecondary
			contact.LinkedID = &linked
			contact.UpdatedAt = f.clock
			f.contacts[id] = contact
		}
	}
	return nil
}

func (f *fakeContactStore) GetClusterMembers(primaryID int64) ([]model.Contact, error) {
	var members []model.Contact
	for _, contact := range f.contacts {
		if contact.ID == primaryID {
			if f.dropSurvivorOnReread {
				continue
			}
			members = append(members, contact)
		} else if contact.LinkedID != nil && *contact.LinkedID == primaryID {
			members = append(members, contact)
		}
	}
	sortByCreation(members)
	return members, nil
}

func (f *fakeContactStore) GetCreationTimes(ids []int64) ([]model.ContactCreation, error) {
	var creations []model.ContactCreation
	for _, id := range ids {
		if contact, ok := f.contacts[id]; ok {
			creations = append(creations, model.ContactCreation{ID: contact.ID, CreatedAt: contact.CreatedAt})
		}
	}
	sort.Slice(creations, func(i, j int) bool {
		if creations[i].CreatedAt.Equal(creations[j].CreatedAt) {
			return creations[i].ID < creations[j].ID
		}
		return creations[i].CreatedAt.Before(creations[j].CreatedAt)
	})
	return creations, nil
}

func sortByCreation(contacts []model.Contact) {
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].CreatedAt.Equal(contacts[j].CreatedAt) {
			return contacts[i].ID < contacts[j].ID
		}
		return contacts[i].CreatedAt.Before(contacts[j].CreatedAt)
	})
}
