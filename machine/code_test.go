package machine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word uint16
		code Instruction
	}){
		{0x0000, MakeNop()},
		{0x1000, MakeHalt()},
		{0x2123, MakeAlu(OP_ADD, 1, 2, 3)},
		{0x3fed, MakeAlu(OP_SUB, 15, 14, 13)},
		{0x7405, MakeShift(4, 5)},
		{0x81c8, MakeLoadImmediate(1, 200)},
		{0x92ff, MakeAddImmediate(2, 255)},
		{0xa3ff, MakeJump(0x3ff)},
		{0xbc05, MakeBranch(COND_NOT_CARRY, 5)},
		{0xc010, MakeCall(16)},
		{0xd000, MakeReturn()},
		{0xe127, MakeLoad(1, 2, 7)},
		{0xf12f, MakeStore(1, 2, -1)},
		{0xf128, MakeStore(1, 2, -8)},
	}

	for _, entry := range table {
		assert.Equal(entry.code, Decode(entry.word), "0x%04x", entry.word)
	}
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	for word := range 0x10000 {
		code := Decode(uint16(word))
		enc, err := Encode(code)
		assert.NoError(err)
		assert.Equal(code, Decode(enc), "0x%04x", word)
	}

	_, err := Encode(MakeLoad(1, 2, 8))
	assert.ErrorIs(err, ErrOffsetRange)

	_, err = Encode(MakeJump(ADDRESS_COUNT))
	assert.ErrorIs(err, ErrTarget)
}

func TestReadMachineCode(t *testing.T) {
	assert := assert.New(t)

	text := strings.Join([]string{
		"1000000100000101", // ldi r1 5
		"",
		"1000001000001010", // ldi r2 10
		"1111000100101111", // str r1 r2 -1
	}, "\n")

	prog, err := ReadMachineCode(strings.NewReader(text))
	assert.NoError(err)
	assert.Equal(3, prog.Len())

	m := New()
	m.SetProgram(prog)
	for range 3 {
		m.Tick()
	}
	assert.Equal(Word(10), m.Memory()[4])

	out := &bytes.Buffer{}
	assert.NoError(WriteMachineCode(out, prog))
	assert.Equal(strings.ReplaceAll(text, "\n\n", "\n")+"\n", out.String())
}

func TestReadMachineCode_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := ReadMachineCode(strings.NewReader("0000\n1000000100000102\n"))
	assert.ErrorIs(err, ErrMachineCode)

	var eline ErrLine
	assert.ErrorAs(err, &eline)
	assert.Equal(1, eline.LineNo)
	assert.Contains(err.Error(), "line 2")
}

func TestWriteMachineCode_Offset(t *testing.T) {
	assert := assert.New(t)

	prog := MustProgram(MakeNop(), MakeStore(1, 2, 100))
	err := WriteMachineCode(&bytes.Buffer{}, prog)
	assert.ErrorIs(err, ErrOffsetRange)

	var einst ErrInstruction
	assert.ErrorAs(err, &einst)
	assert.Equal(1, einst.Index)
}
