package envelope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/finvault/mpcx/types"
)

// round trip must reproduce a value deep-equal to the plaintext, for any
// json-serializable shape
func Test_Envelope_Round_Trip(t *testing.T) {
	privkey, err := GenerateKey()
	require.NoError(t, err)
	pubkey := EncodePublicKey(&privkey.PublicKey)

	values := []interface{}{
		float64(42),
		[]float64{1, 2, 3},
		map[string]interface{}{"a": float64(5), "b": float64(3)},
		"hello",
		nil,
	}

	for _, value := range values {
		env, err := Seal(value, pubkey)
		require.NoError(t, err)
		require.NotEmpty(t, env)

		plain, err := Open(env, privkey)
		require.NoError(t, err)

		var got interface{}
		err = json.Unmarshal(plain, &got)
		require.NoError(t, err)

		expected, err := json.Marshal(value)
		require.NoError(t, err)
		var want interface{}
		err = json.Unmarshal(expected, &want)
		require.NoError(t, err)

		require.Equal(t, want, got)
	}
}

// the envelope must be unrecoverable without the matching private key
func Test_Envelope_Wrong_Key(t *testing.T) {
	alice, err := GenerateKey()
	require.NoError(t, err)
	bob, err := GenerateKey()
	require.NoError(t, err)

	env, err := Seal([]float64{1, 2, 3}, EncodePublicKey(&alice.PublicKey))
	require.NoError(t, err)

	_, err = Open(env, bob)
	require.Error(t, err)

	decodeErr := &types.DecodeError{}
	require.True(t, xerrors.As(err, &decodeErr))
}

func Test_Envelope_Malformed(t *testing.T) {
	privkey, err := GenerateKey()
	require.NoError(t, err)

	decodeErr := &types.DecodeError{}

	_, err = Open("not base64 !!!", privkey)
	require.True(t, xerrors.As(err, &decodeErr))

	_, err = Open("bm90IGEgdmFsaWQgZW52ZWxvcGU=", privkey)
	require.True(t, xerrors.As(err, &decodeErr))

	_, err = Open("", nil)
	require.True(t, xerrors.As(err, &decodeErr))
}

func Test_Envelope_Bad_Recipient_Key(t *testing.T) {
	_, err := Seal(float64(1), "not hex")
	require.Error(t, err)

	_, err = Seal(float64(1), "abcdef")
	require.Error(t, err)
}

func Test_PublicKey_Codec(t *testing.T) {
	privkey, err := GenerateKey()
	require.NoError(t, err)

	encoded := EncodePublicKey(&privkey.PublicKey)
	decoded, err := DecodePublicKey(encoded)
	require.NoError(t, err)

	require.Equal(t, encoded, EncodePublicKey(decoded))
}
