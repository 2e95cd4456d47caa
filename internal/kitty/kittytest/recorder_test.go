package kittytest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_Action(t *testing.T) {
	tests := []struct {
		name    string
		control string
		want    byte
	}{
		{name: "transmit", control: "q=2,a=t,f=100,t=d,i=1,m=1", want: 't'},
		{name: "put", control: "q=2,a=p,C=1,i=1,", want: 'p'},
		{name: "continuation chunk", control: "q=2,m=0", want: 0},
		{name: "empty", control: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sequence{Control: tt.control}.Action())
		})
	}
}

func TestRecorder_ParseAndCount(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.WriteAll([]byte("\x1b_Gq=2,a=t,i=1,m=1;AAAA\x1b\\"), true))
	require.NoError(t, r.WriteAll([]byte("\x1b_Gq=2,m=0;BBBB\x1b\\"), true))
	require.NoError(t, r.WriteAll([]byte("\x1b7\x1b_Gq=2,a=p,C=1,i=1,\x1b\\\x1b8"), false))

	seqs := r.Sequences()
	require.Len(t, seqs, 3)
	assert.Equal(t, "AAAA", seqs[0].Payload)
	assert.True(t, seqs[1].Has("m", "0"))
	assert.Equal(t, 1, r.Count('t'))
	assert.Equal(t, 1, r.Count('p'))
}

func TestRecorder_FailAfter(t *testing.T) {
	r := NewRecorder()
	r.FailAfter(1)

	require.NoError(t, r.WriteAll([]byte("a"), false))
	require.ErrorIs(t, r.WriteAll([]byte("b"), false), ErrInjected)
	assert.Equal(t, "a", r.String())

	r.FailAfter(-1)
	require.NoError(t, r.WriteAll([]byte("c"), false))
}
