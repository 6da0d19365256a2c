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

package errors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("job %d does not conform", 7)
	assert.EqualError(t, Cause(err), "job 7 does not conform")
	assert.True(t, IsConfigurationError(err))
	assert.True(t, IsConfigurationError(Wrap(err, "adding job")))
	assert.False(t, IsConfigurationError(New("other")))
	assert.False(t, IsConfigurationError(nil))
	assert.False(t, IsInternalInvariantError(err))
}

func TestInternalInvariantError(t *testing.T) {
	err := NewInternalInvariantError("registry entry %d is not a group", 2)
	assert.True(t, IsInternalInvariantError(err))
	assert.True(t, IsInternalInvariantError(WithMessage(err, "registering")))
	assert.False(t, IsInternalInvariantError(New("other")))
	assert.False(t, IsConfigurationError(err))
}

func TestIsContextCanceled(t *testing.T) {
	assert.True(t, IsContextCanceled(context.Canceled))
	assert.True(t, IsContextCanceled(Wrap(context.Canceled, "request")))
	assert.False(t, IsContextCanceled(context.DeadlineExceeded))
	assert.True(t, IsContextDeadlineExpired(context.DeadlineExceeded))
}
