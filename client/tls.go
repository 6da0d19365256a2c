//
// Copyright 2017-2022 ArangoDB GmbH, Cologne, Germany
//
// The Programs (which include both the software and documentation) contain
// proprietary information of ArangoDB GmbH; they are provided under a license
// agreement containing restrictions on use and disclosure and are also
// protected by copyright, patent and other intellectual and industrial
// property laws. Reverse engineering, disassembly or decompilation of the
// Programs, except to the extent required to obtain interoperability with
// other independently created software or as specified by law, is prohibited.
//
// It shall be the licensee's responsibility to take all appropriate fail-safe,
// backup, redundancy, and other measures to ensure the safe use of
// applications if the Programs are used for purposes such as nuclear,
// aviation, mass transit, medical, or other inherently dangerous applications,
// and ArangoDB GmbH disclaims liability for any damages caused by such use of
// the Programs.
//
// This software is the confidential and proprietary information of ArangoDB
// GmbH. You shall not disclose such confidential and proprietary information
// and shall use it only in accordance with the terms of the license agreement
// you entered into with ArangoDB GmbH.
//

package client

import (
	"crypto/tls"

	certificates "github.com/arangodb-helper/go-certificates"
)

// TLSAuthentication contains configuration for using client certificates
// and TLS verification of the server.
type TLSAuthentication struct {
	// Client certificate used to authenticate myself.
	ClientCertificate string
	// Private key of client certificate used for authentication.
	ClientKey string
	// CA certificate used to sign the TLS connection of the server.
	// This is used for verifying the server.
	CACertificate string
}

// TLSConfig contains the required parameters to build a tls.Config.
type TLSConfig struct {
	InsecureSkipVerify bool
	TLSAuth            *TLSAuthentication
}

// authProxy adapts TLSAuthentication to the interface expected by the
// certificates package.
type authProxy struct {
	auth TLSAuthentication
}

func (a authProxy) CACertificate() string {
	return a.auth.CACertificate
}

func (a authProxy) ClientCertificate() string {
	return a.auth.ClientCertificate
}

func (a authProxy) ClientKey() string {
	return a.auth.ClientKey
}

func (t *TLSConfig) getTLSConfig() (*tls.Config, error) {
	if t == nil {
		return nil, nil
	}

	if t.TLSAuth != nil {
		return certificates.CreateTLSConfigFromAuthentication(authProxy{auth: *t.TLSAuth}, t.InsecureSkipVerify)
	}
	return &tls.Config{
		InsecureSkipVerify: t.InsecureSkipVerify,
	}, nil
}
