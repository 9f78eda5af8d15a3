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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-resolution-service/internal/system/constants"
)

func TestFindCandidates_MatchesEitherIdentifier(t *testing.T) {
	fake := newFakeContactStore()
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	byEmail := fake.seed(strPtr("a@x.io"), strPtr("111"), nil, constants.LinkPrecedencePrimary, t0)
	byPhone := fake.seed(strPtr("b@x.io"), strPtr("222"), nil, constants.LinkPrecedencePrimary, t0.Add(time.Minute))
	fake.seed(strPtr("c@x.io"), strPtr("333"), nil, constants.LinkPrecedencePrimary, t0.Add(2*time.Minute))

	matcher := NewContactMatcher(fake)
	candidates, err := matcher.FindCandidates(strPtr("a@x.io"), strPtr("222"))
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, byEmail.ID, candidates[0].ID)
	assert.Equal(t, byPhone.ID, candidates[1].ID)

	// Purely a read.
	assert.Equal(t, 0, fake.insertCalls)
	assert.Equal(t, 0, fake.relinkCalls)
}

func TestFindCandidates_NoMatches_ReturnsEmpty(t *testing.T) {
	fake := newFakeContactStore()
	matcher := NewContactMatcher(fake)

	candidates, err := matcher.FindCandidates(strPtr("nobody@x.io"), nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
