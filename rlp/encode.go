// Copyright 2026 The axiom-keystore-modules Authors
// This file is part of the axiom-keystore-modules library.
//
// The axiom-keystore-modules library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The axiom-keystore-modules library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the axiom-keystore-modules library. If not, see <http://www.gnu.org/licenses/>.

package rlp

import "math/bits"

// EmptyString is the canonical encoding of the empty RLP string.
const EmptyString = 0x80

// AppendString appends the RLP encoding of s as a string to buf.
func AppendString(buf, s []byte) []byte {
	switch {
	case len(s) == 1 && s[0] < 0x80:
		return append(buf, s[0])
	case len(s) < 56:
		buf = append(buf, 0x80+byte(len(s)))
		return append(buf, s...)
	default:
		buf = appendSize(buf, 0xB7, uint64(len(s)))
		return append(buf, s...)
	}
}

// AppendUint64 appends the RLP encoding of i to buf. Zero encodes as the
// empty string.
func AppendUint64(buf []byte, i uint64) []byte {
	if i == 0 {
		return append(buf, EmptyString)
	}
	if i < 0x80 {
		return append(buf, byte(i))
	}
	beLen := (bits.Len64(i) + 7) / 8
	buf = append(buf, 0x80+byte(beLen))
	for j := beLen - 1; j >= 0; j-- {
		buf = append(buf, byte(i>>(8*j)))
	}
	return buf
}

// WrapList prefixes an already-encoded payload with a list header.
func WrapList(payload []byte) []byte {
	var buf []byte
	if len(payload) < 56 {
		buf = append(buf, 0xC0+byte(len(payload)))
	} else {
		buf = appendSize(buf, 0xF7, uint64(len(payload)))
	}
	return append(buf, payload...)
}

func appendSize(buf []byte, base byte, size uint64) []byte {
	beLen := (bits.Len64(size) + 7) / 8
	buf = append(buf, base+byte(beLen))
	for j := beLen - 1; j >= 0; j-- {
		buf = append(buf, byte(size>>(8*j)))
	}
	return buf
}
