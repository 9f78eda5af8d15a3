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

package managers

import (
	"net/http"

	contacthandler "github.com/wso2/identity-contact-resolution-service/internal/contact/handler"
	healthhandler "github.com/wso2/identity-contact-resolution-service/internal/health_check/handler"
	"github.com/wso2/identity-contact-resolution-service/internal/system/constants"
)

type ServiceManagerInterface interface {
	RegisterServices() error
}

type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices mounts the contact resolution and health endpoints.
func (sm *ServiceManager) RegisterServices() error {

	contactHandler := contacthandler.NewContactHandler()
	sm.mux.HandleFunc(constants.IdentifyApiPath, contactHandler.HandleIdentify)

	healthHandler := healthhandler.NewHealthHandler()
	sm.mux.HandleFunc(constants.HealthApiPath, healthHandler.HandleHealth)
	sm.mux.HandleFunc(constants.ReadinessApiPath, healthHandler.HandleReadiness)

	return nil
}
