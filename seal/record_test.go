// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	b := appendRecord(nil, typeHello, []byte("abc"))
	b = appendRecord(b, typeSealed, nil)

	for i := range 6 {
		_, _, n, err := parseRecord(b[:i])
		require.NoError(t, err)
		assert.Zero(t, n, "prefix of %d bytes is incomplete", i)
	}

	typ, body, n, err := parseRecord(b)
	require.NoError(t, err)
	assert.Equal(t, typeHello, typ)
	assert.Equal(t, []byte("abc"), body)
	assert.Equal(t, 6, n)

	typ, body, n, err = parseRecord(b[n:])
	require.NoError(t, err)
	assert.Equal(t, typeSealed, typ)
	assert.Empty(t, body)
	assert.Equal(t, headerLen, n)
}

func TestParseRecordTooLarge(t *testing.T) {
	_, _, _, err := parseRecord([]byte{typeSealed, 0xff, 0xff})
	assert.ErrorIs(t, err, errRecordTooLarge)
}

func TestNonceDistinct(t *testing.T) {
	assert.NotEqual(t, nonce(labelC2S, 0), nonce(labelS2C, 0))
	assert.NotEqual(t, nonce(labelC2S, 0), nonce(labelC2S, 1))
}
