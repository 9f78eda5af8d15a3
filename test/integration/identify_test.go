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

package integration

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-resolution-service/internal/contact/model"
	"github.com/wso2/identity-contact-resolution-service/internal/contact/provider"
)

func strPtr(s string) *string { return &s }

func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func identify(t *testing.T, email, phone *string) *model.ConsolidatedIdentity {
	t.Helper()
	svc := provider.NewContactProvider().GetContactService()
	identity, err := svc.Identify(model.IdentifyRequest{Email: email, PhoneNumber: phone})
	require.NoError(t, err)
	require.NotNil(t, identity)
	return identity
}

func contactRowCount(t *testing.T, email, phone string) int {
	t.Helper()
	var count int
	err := testDB.QueryRow(
		`SELECT COUNT(*) FROM contact WHERE email = $1 OR phone_number = $2`, email, phone).Scan(&count)
	require.NoError(t, err)
	return count
}

func contactLinkage(t *testing.T, id int64) (string, *int64) {
	t.Helper()
	var precedence string
	var linkedID *int64
	err := testDB.QueryRow(
		`SELECT link_precedence, linked_id FROM contact WHERE id = $1`, id).Scan(&precedence, &linkedID)
	require.NoError(t, err)
	return precedence, linkedID
}

func Test_Identify_NewCustomer_CreatesPrimary(t *testing.T) {
	suffix := uniqueSuffix()
	email := strPtr("new-" + suffix + "@hillvalley.edu")
	phone := strPtr("100" + suffix)

	identity := identify(t, email, phone)

	assert.Equal(t, []string{*email}, identity.Emails)
	assert.Equal(t, []string{*phone}, identity.PhoneNumbers)
	assert.Empty(t, identity.SecondaryContactIDs)

	precedence, linkedID := contactLinkage(t, identity.PrimaryContactID)
	assert.Equal(t, "primary", precedence)
	assert.Nil(t, linkedID)
}

func Test_Identify_DuplicateLookup_IsIdempotent(t *testing.T) {
	suffix := uniqueSuffix()
	email := strPtr("dup-" + suffix + "@hillvalley.edu")
	phone := strPtr("101" + suffix)

	first := identify(t, email, phone)
	second := identify(t, email, phone)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, contactRowCount(t, *email, *phone))
}

func Test_Identify_KnownEmailNewPhone_LinksSecondary(t *testing.T) {
	suffix := uniqueSuffix()
	email := strPtr("link-" + suffix + "@hillvalley.edu")
	phone := strPtr("102" + suffix)
	newPhone := strPtr("103" + suffix)

	first := identify(t, email, phone)
	second := identify(t, email, newPhone)

	assert.Equal(t, first.PrimaryContactID, second.PrimaryContactID)
	assert.Equal(t, []string{*email}, second.Emails)
	assert.Equal(t, []string{*phone, *newPhone}, second.PhoneNumbers)
	require.Len(t, second.SecondaryContactIDs, 1)

	precedence, linkedID := contactLinkage(t, second.SecondaryContactIDs[0])
	assert.Equal(t, "secondary", precedence)
	require.NotNil(t, linkedID)
	assert.Equal(t, first.PrimaryContactID, *linkedID)
}

func Test_Identify_MergesIndependentClusters(t *testing.T) {
	suffix := uniqueSuffix()
	emailA := strPtr("a-" + suffix + "@hillvalley.edu")
	phoneA := strPtr("104" + suffix)
	emailB := strPtr("b-" + suffix + "@hillvalley.edu")
	phoneB := strPtr("105" + suffix)

	clusterA := identify(t, emailA, phoneA)
	clusterB := identify(t, emailB, phoneB)

	merged := identify(t, emailA, phoneB)

	assert.Equal(t, clusterA.PrimaryContactID, merged.PrimaryContactID)
	assert.Equal(t, []int64{clusterB.PrimaryContactID}, merged.SecondaryContactIDs)
	assert.Equal(t, []string{*emailA, *emailB}, merged.Emails)
	assert.Equal(t, []string{*phoneA, *phoneB}, merged.PhoneNumbers)

	precedence, linkedID := contactLinkage(t, clusterB.PrimaryContactID)
	assert.Equal(t, "secondary", precedence)
	require.NotNil(t, linkedID)
	assert.Equal(t, clusterA.PrimaryContactID, *linkedID)
}

func Test_Identify_RelinksTransitiveSecondaries(t *testing.T) {
	suffix := uniqueSuffix()
	emailA := strPtr("a2-" + suffix + "@hillvalley.edu")
	phoneA := strPtr("106" + suffix)
	emailB := strPtr("b2-" + suffix + "@hillvalley.edu")
	phoneB := strPtr("107" + suffix)
	phoneB2 := strPtr("108" + suffix)

	clusterA := identify(t, emailA, phoneA)
	identify(t, emailB, phoneB)
	withSecondary := identify(t, emailB, phoneB2)
	require.Len(t, withSecondary.SecondaryContactIDs, 1)
	secondaryOfB := withSecondary.SecondaryContactIDs[0]

	merged := identify(t, emailA, phoneB)

	assert.Equal(t, clusterA.PrimaryContactID, merged.PrimaryContactID)

	// B's own secondary must now point at A directly, not at demoted B.
	precedence, linkedID := contactLinkage(t, secondaryOfB)
	assert.Equal(t, "secondary", precedence)
	require.NotNil(t, linkedID)
	assert.Equal(t, clusterA.PrimaryContactID, *linkedID)
}

func Test_Identify_PrimaryValuesListedFirst(t *testing.T) {
	suffix := uniqueSuffix()
	emailA := strPtr("a3-" + suffix + "@hillvalley.edu")
	phoneA := strPtr("109" + suffix)
	emailB := strPtr("b3-" + suffix + "@hillvalley.edu")
	phoneB := strPtr("110" + suffix)

	identify(t, emailA, phoneA)
	identify(t, emailB, phoneB)

	merged := identify(t, emailB, phoneA)

	require.NotEmpty(t, merged.Emails)
	require.NotEmpty(t, merged.PhoneNumbers)
	assert.Equal(t, *emailA, merged.Emails[0])
	assert.Equal(t, *phoneA, merged.PhoneNumbers[0])
}

func Test_Identify_NoRedundantInsertOnMerge(t *testing.T) {
	suffix := uniqueSuffix()
	emailA := strPtr("a4-" + suffix + "@hillvalley.edu")
	phoneA := strPtr("111" + suffix)
	emailB := strPtr("b4-" + suffix + "@hillvalley.edu")
	phoneB := strPtr("112" + suffix)

	identify(t, emailA, phoneA)
	identify(t, emailB, phoneB)

	// Both values already exist across the two clusters; the request only
	// triggers the merge.
	identify(t, emailA, phoneB)

	assert.Equal(t, 1, contactRowCount(t, *emailA, *phoneA))
	assert.Equal(t, 1, contactRowCount(t, *emailB, *phoneB))
}

func Test_Identify_NormalizesEmailBeforeMatching(t *testing.T) {
	suffix := uniqueSuffix()
	email := strPtr("case-" + suffix + "@hillvalley.edu")
	phone := strPtr("113" + suffix)

	first := identify(t, email, phone)
	shouted := "  CASE-" + suffix + "@HillValley.EDU "
	second := identify(t, &shouted, nil)

	assert.Equal(t, first.PrimaryContactID, second.PrimaryContactID)
	assert.Equal(t, 1, contactRowCount(t, *email, *phone))
}

func Test_Identify_ConcurrentMerge_StaysConsistent(t *testing.T) {
	suffix := uniqueSuffix()
	emailA := strPtr("a5-" + suffix + "@hillvalley.edu")
	phoneA := strPtr("114" + suffix)
	emailB := strPtr("b5-" + suffix + "@hillvalley.edu")
	phoneB := strPtr("115" + suffix)

	clusterA := identify(t, emailA, phoneA)
	clusterB := identify(t, emailB, phoneB)

	var wg sync.WaitGroup
	results := make([]*model.ConsolidatedIdentity, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			svc := provider.NewContactProvider().GetContactService()
			results[slot], errs[slot] = svc.Identify(model.IdentifyRequest{
				Email:       emailA,
				PhoneNumber: phoneB,
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, clusterA.PrimaryContactID, results[0].PrimaryContactID)
	assert.Equal(t, clusterA.PrimaryContactID, results[1].PrimaryContactID)

	// Exactly one demotion, no duplicate secondary rows.
	assert.Equal(t, 1, contactRowCount(t, *emailA, *phoneA))
	assert.Equal(t, 1, contactRowCount(t, *emailB, *phoneB))

	precedence, linkedID := contactLinkage(t, clusterB.PrimaryContactID)
	assert.Equal(t, "secondary", precedence)
	require.NotNil(t, linkedID)
	assert.Equal(t, clusterA.PrimaryContactID, *linkedID)

	var danglers int
	err := testDB.QueryRow(`
		SELECT COUNT(*) FROM contact c
		JOIN contact p ON c.linked_id = p.id
		WHERE p.link_precedence = 'secondary'`).Scan(&danglers)
	require.NoError(t, err)
	assert.Equal(t, 0, danglers, "no secondary may point at another secondary")
}
