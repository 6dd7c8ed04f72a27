package kdbxinfo

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestTLVFields(t *testing.T) {
	spec, ok := TLVFields.Terminator()
	require.True(t, ok)
	assert.Equal(t, FieldEndOfHeader, spec.ID)
	assert.Equal(t, Exact(2), spec.Length)

	testCases := []struct {
		id     FieldID
		length FieldLength
		kind   ValueKind
	}{
		{FieldComment, Variable, ValueText},
		{FieldCipherID, Exact(16), ValueUUID},
		{FieldCompressionFlags, Exact(4), ValueUint32},
		{FieldMasterSeed, Exact(32), ValueBytes},
		{FieldTransformSeed, Exact(32), ValueBytes},
		{FieldTransformRounds, Exact(8), ValueUint64},
		{FieldEncryptionIV, Variable, ValueBytes},
		{FieldProtectedStreamKey, Variable, ValueBytes},
		{FieldStreamStartBytes, Exact(32), ValueBytes},
		{FieldInnerRandomStreamID, Exact(4), ValueUint32},
	}
	for _, tc := range testCases {
		t.Run(tc.id.String(), func(t *testing.T) {
			spec, ok := TLVFields.Lookup(tc.id)
			require.True(t, ok)
			assert.Equal(t, tc.length, spec.Length)
			assert.Equal(t, tc.kind, spec.Kind)
			assert.False(t, spec.Terminator)
		})
	}
	_, ok = TLVFields.Lookup(FieldID(11))
	assert.False(t, ok)
	assert.Len(t, TLVFields.Fields(), 11)
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry(
		FieldSpec{ID: 1, Name: "a", Length: Variable},
		FieldSpec{ID: 1, Name: "b", Length: Variable},
	)
	assert.EqualError(t, err, "duplicate field id 1 (b)")

	_, err = NewRegistry(
		FieldSpec{ID: 0, Name: "end", Length: Exact(2), Terminator: true},
		FieldSpec{ID: 1, Name: "end2", Length: Exact(2), Terminator: true},
	)
	assert.EqualError(t, err, `field "end2": registry already has terminator "end"`)

	_, err = NewRegistry(FieldSpec{ID: 0, Name: "end", Length: Variable, Terminator: true})
	assert.EqualError(t, err, `terminator "end" must have an exact length`)

	_, err = NewRegistry(FieldSpec{ID: 6, Name: "rounds", Length: Exact(4), Kind: ValueUint64})
	assert.EqualError(t, err, `field "rounds": length 4 does not fit its value kind (8 bytes)`)

	assert.Panics(t, func() {
		MustRegistry(FieldSpec{ID: 2, Name: "cipher", Length: Variable, Kind: ValueUUID})
	})
}

func TestRegistry_With(t *testing.T) {
	r, err := TLVFields.With(FieldSpec{ID: FieldEndOfHeader, Name: "EndOfHeader", Length: Exact(4), Terminator: true})
	require.NoError(t, err)
	spec, ok := r.Terminator()
	require.True(t, ok)
	assert.Equal(t, Exact(4), spec.Length)
	assert.Len(t, r.Fields(), 11)
	assert.Equal(t, FieldEndOfHeader, r.Fields()[0].ID)

	// original untouched
	spec, _ = TLVFields.Terminator()
	assert.Equal(t, Exact(2), spec.Length)

	r, err = TLVFields.With(FieldSpec{ID: 11, Name: "KdfParameters", Length: Variable})
	require.NoError(t, err)
	assert.Len(t, r.Fields(), 12)
	_, ok = r.Lookup(11)
	assert.True(t, ok)

	_, err = TLVFields.With(FieldSpec{ID: 11, Name: "Other", Length: Exact(2), Terminator: true})
	assert.Error(t, err)
}

func TestFieldLength(t *testing.T) {
	assert.True(t, Variable.IsVariable())
	assert.True(t, Variable.Matches(0))
	assert.True(t, Variable.Matches(65535))
	assert.False(t, Exact(0).IsVariable())
	assert.True(t, Exact(16).Matches(16))
	assert.False(t, Exact(16).Matches(15))
	assert.Equal(t, "variable", Variable.String())
	assert.Equal(t, "16", Exact(16).String())
}

func TestFieldID_String(t *testing.T) {
	assert.Equal(t, "CipherID(0x02)", FieldCipherID.String())
	assert.Equal(t, "InnerRandomStreamID(0x0A)", FieldInnerRandomStreamID.String())
	assert.Equal(t, "0x0B", FieldID(11).String())
}

func TestRegistry_WithTerminatorLength(t *testing.T) {
	r, err := TLVFields.WithTerminatorLength(4)
	require.NoError(t, err)
	spec, ok := r.Terminator()
	require.True(t, ok)
	assert.Equal(t, Exact(4), spec.Length)
	assert.Equal(t, FieldEndOfHeader, spec.ID)
	assert.Len(t, r.Fields(), len(TLVFields.Fields()))

	_, err = TLVFields.WithTerminatorLength(-1)
	assert.ErrorContains(t, err, "invalid length -1")

	_, err = LegacyFields.WithTerminatorLength(4)
	assert.ErrorContains(t, err, "registry has no terminator")
}
