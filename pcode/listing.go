package pcode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteListing renders the buffer one instruction per line in the fixed
// listing format: right-aligned address, mnemonic, L, a.
func (l *List) WriteListing(w io.Writer) error {
	for i, ins := range l.code {
		if _, err := fmt.Fprintf(w, "%4d %s %d %d\n", i, ins.Op.Name(), ins.L, ins.A); err != nil {
			return err
		}
	}

	return nil
}

var opByName = map[string]Op{
	"LIT": Lit,
	"OPR": Opr,
	"LOD": Lod,
	"STO": Sto,
	"CAL": Cal,
	"INT": Int,
	"JMP": Jmp,
	"JPC": Jpc,
	"RED": Red,
	"WRT": Wrt,
}

// ParseListing reads a listing produced by WriteListing back into a code
// buffer.  Addresses must be consecutive from zero.
func ParseListing(r io.Reader) (*List, error) {
	l := NewList()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed listing line: `%s`", line)
		}

		addr, err := strconv.Atoi(fields[0])
		if err != nil || addr != l.Len() {
			return nil, fmt.Errorf("bad instruction address `%s`: want %d", fields[0], l.Len())
		}

		op, ok := opByName[fields[1]]
		if !ok {
			return nil, fmt.Errorf("unknown mnemonic `%s`", fields[1])
		}

		level, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("bad L field `%s`", fields[2])
		}

		a, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("bad a field `%s`", fields[3])
		}

		l.Emit(op, level, a)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return l, nil
}
