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

import "strings"

// NormalizeEmail trims and lower-cases an email value. Empty values collapse
// to nil so downstream comparisons never see blank identifiers.
func NormalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}

// NormalizePhone trims a phone number value. Empty values collapse to nil.
func NormalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	normalized := strings.TrimSpace(*phone)
	if normalized == "" {
		return nil
	}
	return &normalized
}
