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

package model

import (
	"time"

	"github.com/wso2/identity-contact-resolution-service/internal/system/constants"
)

// Contact is a single identity observation. A primary contact is the
// canonical representative of a customer; a secondary carries LinkedID
// pointing at its cluster's current primary.
type Contact struct {
	ID             int64      `json:"id"`
	Email          *string    `json:"email,omitempty"`
	PhoneNumber    *string    `json:"phoneNumber,omitempty"`
	LinkedID       *int64     `json:"linkedId,omitempty"`
	LinkPrecedence string     `json:"linkPrecedence"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DeletedAt      *time.Time `json:"deletedAt,omitempty"`
}

// IsPrimary reports whether the contact heads its own cluster.
func (c Contact) IsPrimary() bool {
	return c.LinkPrecedence == constants.LinkPrecedencePrimary
}

// EffectivePrimaryID resolves the id of the cluster's primary: the contact's
// own id when primary, otherwise the id it links to.
func (c Contact) EffectivePrimaryID() int64 {
	if c.LinkedID != nil && !c.IsPrimary() {
		return *c.LinkedID
	}
	return c.ID
}

// ContactCreation pairs a contact id with its creation timestamp, used to
// decide which primary survives a cluster merge.
type ContactCreation struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// IdentifyRequest is the inbound identify payload. Both fields are optional
// but at least one must be present.
type IdentifyRequest struct {
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

// ConsolidatedIdentity is the aggregated view of a contact cluster: the
// surviving primary id, deduplicated emails and phones with the primary's
// own values first, and all secondary ids in ascending creation order.
type ConsolidatedIdentity struct {
	PrimaryContactID    int64    `json:"primaryContactId"`
	Emails              []string `json:"emails"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	SecondaryContactIDs []int64  `json:"secondaryContactIds"`
}

// IdentifyResponse wraps the consolidated identity in the response envelope.
type IdentifyResponse struct {
	Contact ConsolidatedIdentity `json:"contact"`
}
