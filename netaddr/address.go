/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package netaddr defines the fixed-layout IPv4 socket address that crosses
// the FFI boundary. IPv6 is out of scope: FromUDPAddr rejects an IP without
// an IPv4 form rather than silently truncating it.
package netaddr

import (
	"fmt"
	"net"
)

// Address mirrors the ABI's repr-C { port: u16, address: [4]u8 } struct.
type Address struct {
	Port    uint16
	Address [4]byte
}

// FromUDPAddr converts a *net.UDPAddr into an Address. It fails for any
// address that does not carry a 4-byte (IPv4) representation.
func FromUDPAddr(a *net.UDPAddr) (Address, error) {
	if a == nil {
		return Address{}, fmt.Errorf("netaddr: nil UDPAddr")
	}

	ip4 := a.IP.To4()
	if ip4 == nil {
		return Address{}, fmt.Errorf("netaddr: %s is not an IPv4 address", a.IP)
	}

	var out Address
	out.Port = uint16(a.Port)
	copy(out.Address[:], ip4)

	return out, nil
}

// UDPAddr converts the Address back into a *net.UDPAddr.
func (a Address) UDPAddr() *net.UDPAddr {
	ip := make(net.IP, 4)
	copy(ip, a.Address[:])

	return &net.UDPAddr{
		IP:   ip,
		Port: int(a.Port),
	}
}

func (a Address) String() string {
	return a.UDPAddr().String()
}
