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

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wso2/identity-contact-resolution-service/internal/contact/model"
	"github.com/wso2/identity-contact-resolution-service/internal/contact/provider"
	crscontext "github.com/wso2/identity-contact-resolution-service/internal/system/context"
	errors2 "github.com/wso2/identity-contact-resolution-service/internal/system/errors"
	"github.com/wso2/identity-contact-resolution-service/internal/system/log"
	"github.com/wso2/identity-contact-resolution-service/internal/system/utils"
)

// ContactHandler serves the identify endpoint.
type ContactHandler struct{}

// NewContactHandler creates a new instance of ContactHandler.
func NewContactHandler() *ContactHandler {

	return &ContactHandler{}
}

// HandleIdentify processes an identity observation and responds with the
// consolidated view of the matching contact cluster.
func (ch *ContactHandler) HandleIdentify(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request model.IdentifyRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.BAD_REQUEST.Code,
			Message:     errors2.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "identify"),
		}, http.StatusBadRequest)
		utils.WriteErrorResponse(w, clientError)
		return
	}

	contactService := provider.NewContactProvider().GetContactService()
	identity, err := contactService.Identify(request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	// Audit log for contact identification
	logger := log.GetLogger()
	traceID := crscontext.GetTraceID(r.Context())
	logger.Audit(log.AuditEvent{
		InitiatorType: log.InitiatorTypeSystem,
		TargetID:      fmt.Sprintf("%d", identity.PrimaryContactID),
		TargetType:    log.TargetTypeContact,
		ActionID:      log.ActionIdentifyContact,
		TraceID:       traceID,
		Data: map[string]int{
			"secondary_contacts": len(identity.SecondaryContactIDs),
		},
	})

	utils.WriteSuccessResponse(w, http.StatusOK, model.IdentifyResponse{Contact: *identity})
}
