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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-resolution-service/internal/contact/model"
	"github.com/wso2/identity-contact-resolution-service/internal/system/errors"
)

// ---------------------------------------------------------------------------
// Identify – early-return validation (no DB required)
// ---------------------------------------------------------------------------

func TestIdentify_BothIdentifiersMissing_Rejected(t *testing.T) {
	svc := &ContactService{}

	_, err := svc.Identify(model.IdentifyRequest{})
	require.Error(t, err)

	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok, "expected a ClientError")
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
	assert.Equal(t, errors.MISSING_IDENTIFIERS.Code, clientErr.Code)
}

func TestIdentify_BlankIdentifiers_Rejected(t *testing.T) {
	svc := &ContactService{}

	_, err := svc.Identify(model.IdentifyRequest{
		Email:       strPtr("   "),
		PhoneNumber: strPtr(""),
	})
	require.Error(t, err)

	clientErr, ok := err.(*errors.ClientError)
	require.True(t, ok, "expected a ClientError")
	assert.Equal(t, http.StatusBadRequest, clientErr.StatusCode)
}
