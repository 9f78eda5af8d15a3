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
	"github.com/wso2/identity-contact-resolution-service/internal/contact/model"
	"github.com/wso2/identity-contact-resolution-service/internal/contact/store"
)

// ContactMatcherInterface finds stored contacts matching an incoming
// identity observation.
type ContactMatcherInterface interface {
	FindCandidates(email, phone *string) ([]model.Contact, error)
}

// ContactMatcher is the default implementation of the ContactMatcherInterface.
type ContactMatcher struct {
	store store.ContactStoreInterface
}

// NewContactMatcher creates a matcher over the given contact store.
func NewContactMatcher(contactStore store.ContactStoreInterface) ContactMatcherInterface {

	return &ContactMatcher{store: contactStore}
}

// FindCandidates returns every stored contact whose email or phone exactly
// equals a supplied non-nil value. Inputs are assumed already normalized by
// the caller; no fuzzy matching, no validation, no side effects.
func (cm *ContactMatcher) FindCandidates(email, phone *string) ([]model.Contact, error) {

	return cm.store.GetContactsByEmailOrPhone(email, phone)
}
