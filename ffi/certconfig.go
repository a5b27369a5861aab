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

package ffi

import (
	"encoding/pem"

	"github.com/nabbar/quincore/certificates"
	tlscpr "github.com/nabbar/quincore/certificates/cipher"
	tlscrv "github.com/nabbar/quincore/certificates/curves"
	tlsvrs "github.com/nabbar/quincore/certificates/tlsversion"
	"github.com/nabbar/quincore/ffiio"
	"github.com/nabbar/quincore/ffiresult"
	"github.com/nabbar/quincore/handle"
	"github.com/nabbar/quincore/quicerr"
)

// defaultCiphers and defaultCurves pin down the cipher suites and
// key-exchange groups §6 names for create_server_config/create_client_config,
// independent of whatever Go's tls package defaults to on a given release.
var (
	defaultCiphers = []tlscpr.Cipher{
		tlscpr.TLS_AES_256_GCM_SHA384,
		tlscpr.TLS_AES_128_GCM_SHA256,
		tlscpr.TLS_CHACHA20_POLY1305_SHA256,
	}
	defaultCurves = []tlscrv.Curves{
		tlscrv.X25519,
		tlscrv.P256,
		tlscrv.P384,
	}
)

// derToPEM wraps a single DER-encoded block under blockType so it can be
// handed to the certificates package, which works in terms of PEM text.
func derToPEM(der []byte, blockType string) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}))
}

// buildTLSConfig is shared by doCreateServerConfig and doCreateClientConfig:
// both endpoints want the same TLS 1.2/1.3 range and the same fixed cipher
// and curve lists, differing only in which cert/key pair they load.
func buildTLSConfig(certDER, keyDER []byte) (certificates.TLSConfig, error) {
	cfg := certificates.New()
	cfg.SetVersionMin(tlsvrs.VersionTLS12)
	cfg.SetVersionMax(tlsvrs.VersionTLS13)
	cfg.SetCipherList(defaultCiphers)
	cfg.SetCurveList(defaultCurves)

	certPEM := derToPEM(certDER, "CERTIFICATE")
	keyPEM := derToPEM(keyDER, "PRIVATE KEY")

	if err := cfg.AddCertificatePairString(keyPEM, certPEM); err != nil {
		return nil, err
	}

	return cfg, nil
}

// doCreateServerConfig and doCreateClientConfig implement create_server_config
// / create_client_config (§6 Configuration): build a certificates.TLSConfig
// from a DER certificate and a DER PKCS#8/PKCS#1 key, box it behind an
// Exclusive handle (configuration objects have a single logical owner, the
// endpoint created from them), and hand the handle's address back.
func doCreateServerConfig(outHandle ffiio.Out[handle.Addr], cert ffiio.RefBytes, key ffiio.RefBytes) ffiresult.Result {
	if outHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_handle"))
	}
	if cert.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("cert_bytes"))
	}
	if key.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("key_bytes"))
	}

	cfg, err := buildTLSConfig(cert.AsBytes(cert.Len()), key.AsBytes(key.Len()))
	if err != nil {
		return ffiresult.Context(quicerr.FromIO(err))
	}

	h := handle.NewExclusive[certificates.TLSConfig](cfg)
	outHandle.Init(h.Addr())

	return ffiresult.Context(nil)
}

func doCreateClientConfig(outHandle ffiio.Out[handle.Addr], cert ffiio.RefBytes, key ffiio.RefBytes) ffiresult.Result {
	if outHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("out_handle"))
	}
	if cert.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("cert_bytes"))
	}
	if key.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("key_bytes"))
	}

	cfg, err := buildTLSConfig(cert.AsBytes(cert.Len()), key.AsBytes(key.Len()))
	if err != nil {
		return ffiresult.Context(quicerr.FromIO(err))
	}

	h := handle.NewExclusive[certificates.TLSConfig](cfg)
	outHandle.Init(h.Addr())

	return ffiresult.Context(nil)
}

// doDestroyConfig implements destroy_config: it releases the Exclusive
// handle without inspecting the config further.
func doDestroyConfig(cfgHandle handle.Addr) ffiresult.Result {
	if cfgHandle.IsNull() {
		return ffiresult.Context(quicerr.ArgumentNull("config_handle"))
	}

	h, ok := handle.ExclusiveFromAddr[certificates.TLSConfig](cfgHandle)
	if !ok {
		return ffiresult.Context(quicerr.FFI("config_handle"))
	}

	return ffiresult.Context(h.Dealloc(nil))
}

// configFromHandle resolves cfgHandle into the certificates.TLSConfig it
// boxes, used by endpoint creation to thread the configuration through to
// the protocol library.
func configFromHandle(cfgHandle handle.Addr) (certificates.TLSConfig, error) {
	h, ok := handle.ExclusiveFromAddr[certificates.TLSConfig](cfgHandle)
	if !ok {
		return nil, quicerr.FFI("config_handle")
	}

	var cfg certificates.TLSConfig
	if err := h.RefAccess(func(inner certificates.TLSConfig) error {
		cfg = inner
		return nil
	}); err != nil {
		return nil, err
	}

	return cfg, nil
}
