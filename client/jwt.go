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
	"net/http"

	jwt "github.com/golang-jwt/jwt"
)

const (
	jwtIssuer = "jobgroup"
)

// addJWTHeader signs a bearer token with the given secret and adds it as
// Authorization header to the given request.
func addJWTHeader(req *http.Request, jwtSecret string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":       jwtIssuer,
		"server_id": jwtIssuer,
	})

	// Sign and get the complete encoded token as a string using the secret.
	signedToken, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		return maskAny(err)
	}

	req.Header.Set("Authorization", "bearer "+signedToken)
	return nil
}
