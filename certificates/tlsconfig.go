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

package certificates

import (
	"crypto/tls"
	"io"

	tlsaut "github.com/nabbar/quincore/certificates/auth"
	tlscas "github.com/nabbar/quincore/certificates/ca"
	tlscrt "github.com/nabbar/quincore/certificates/certs"
	tlscpr "github.com/nabbar/quincore/certificates/cipher"
	tlscrv "github.com/nabbar/quincore/certificates/curves"
	tlsvrs "github.com/nabbar/quincore/certificates/tlsversion"
)

// config is the concrete TLSConfig backing every value this package hands
// out, whether built fresh with New or derived from a Config with NewFrom.
type config struct {
	rand io.Reader

	cert       []tlscrt.Cert
	cipherList []tlscpr.Cipher
	curveList  []tlscrv.Curves

	caRoot   []tlscas.Cert
	clientCA []tlscas.Cert

	clientAuth tlsaut.ClientAuth

	tlsMinVersion tlsvrs.Version
	tlsMaxVersion tlsvrs.Version

	dynSizingDisabled     bool
	ticketSessionDisabled bool
}

func (o *config) RegisterRand(rand io.Reader) {
	o.rand = rand
}

func (o *config) SetVersionMin(v tlsvrs.Version) {
	o.tlsMinVersion = v
}

func (o *config) GetVersionMin() tlsvrs.Version {
	return o.tlsMinVersion
}

func (o *config) SetVersionMax(v tlsvrs.Version) {
	o.tlsMaxVersion = v
}

func (o *config) GetVersionMax() tlsvrs.Version {
	return o.tlsMaxVersion
}

func (o *config) SetDynamicSizingDisabled(flag bool) {
	o.dynSizingDisabled = flag
}

func (o *config) SetSessionTicketDisabled(flag bool) {
	o.ticketSessionDisabled = flag
}

// Clone returns an independent copy of o: every slice is copied so mutating
// the clone's CA pools, cipher list or curve list never reaches back into o.
func (o *config) Clone() TLSConfig {
	c := &config{
		rand:                  o.rand,
		cert:                  append(make([]tlscrt.Cert, 0, len(o.cert)), o.cert...),
		cipherList:            append(make([]tlscpr.Cipher, 0, len(o.cipherList)), o.cipherList...),
		curveList:             append(make([]tlscrv.Curves, 0, len(o.curveList)), o.curveList...),
		caRoot:                append(make([]tlscas.Cert, 0, len(o.caRoot)), o.caRoot...),
		clientCA:              append(make([]tlscas.Cert, 0, len(o.clientCA)), o.clientCA...),
		clientAuth:            o.clientAuth,
		tlsMinVersion:         o.tlsMinVersion,
		tlsMaxVersion:         o.tlsMaxVersion,
		dynSizingDisabled:     o.dynSizingDisabled,
		ticketSessionDisabled: o.ticketSessionDisabled,
	}

	return c
}

// TLS builds a *tls.Config reflecting the current state of o for serverName.
// The returned config references o's certificate and CA pools rather than
// copying them, so later calls to AddCertificatePair*/AddRootCA* are picked
// up the next time a handshake consults this *tls.Config's callbacks... but
// since crypto/tls reads Certificates/RootCAs/ClientCAs eagerly at handshake
// time, callers that mutate o after calling TLS must call TLS again to see
// the change reflected.
func (o *config) TLS(serverName string) *tls.Config {
	var cipherSuites []uint16
	for _, c := range o.GetCiphers() {
		cipherSuites = append(cipherSuites, c.Uint16())
	}

	var curvePrefs []tls.CurveID
	for _, c := range o.GetCurves() {
		curvePrefs = append(curvePrefs, tls.CurveID(c.Uint16()))
	}

	return &tls.Config{
		Rand:                        o.rand,
		Certificates:                o.GetCertificatePair(),
		RootCAs:                     o.GetRootCAPool(),
		ClientCAs:                   o.GetClientCAPool(),
		ClientAuth:                  tls.ClientAuthType(o.clientAuth),
		MinVersion:                  uint16(o.tlsMinVersion),
		MaxVersion:                  uint16(o.tlsMaxVersion),
		CipherSuites:                cipherSuites,
		CurvePreferences:            curvePrefs,
		DynamicRecordSizingDisabled: o.dynSizingDisabled,
		SessionTicketsDisabled:      o.ticketSessionDisabled,
		ServerName:                  serverName,
	}
}

// TlsConfig is an alias for TLS kept for callers migrating from the
// mixed-case spelling used elsewhere in this module family.
func (o *config) TlsConfig(serverName string) *tls.Config {
	return o.TLS(serverName)
}

// Config flattens o back into the serializable Config shape.
func (o *config) Config() *Config {
	c := &Config{
		CurveList:            append(make([]tlscrv.Curves, 0, len(o.curveList)), o.curveList...),
		CipherList:           append(make([]tlscpr.Cipher, 0, len(o.cipherList)), o.cipherList...),
		RootCA:               append(make([]tlscas.Cert, 0, len(o.caRoot)), o.caRoot...),
		ClientCA:             append(make([]tlscas.Cert, 0, len(o.clientCA)), o.clientCA...),
		Certs:                make([]tlscrt.Certif, 0, len(o.cert)),
		VersionMin:           o.tlsMinVersion,
		VersionMax:           o.tlsMaxVersion,
		AuthClient:           o.clientAuth,
		DynamicSizingDisable: o.dynSizingDisabled,
		SessionTicketDisable: o.ticketSessionDisabled,
	}

	for _, crt := range o.cert {
		c.Certs = append(c.Certs, crt.Model())
	}

	return c
}
