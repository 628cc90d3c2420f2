// Package pkcs12 carrega o certificado TLS do servidor a partir de um
// arquivo PFX.
package pkcs12

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// ErrCertificateExpired indica certificado fora do período de validade
var ErrCertificateExpired = errors.New("certificado fora do período de validade")

// LoadTLSCertificate lê o arquivo PFX e monta o certificado com a cadeia
func LoadTLSCertificate(path, password string) (tls.Certificate, error) {
	pfxData, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("falha ao ler arquivo PFX: %w", err)
	}
	return ParseTLSCertificate(pfxData, password, time.Now())
}

// ParseTLSCertificate decodifica o PFX e rejeita certificados vencidos
// ou ainda não válidos em now
func ParseTLSCertificate(pfxData []byte, password string, now time.Time) (tls.Certificate, error) {
	privateKey, certificate, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("falha ao decodificar PFX: %w", err)
	}

	if now.Before(certificate.NotBefore) || now.After(certificate.NotAfter) {
		return tls.Certificate{}, fmt.Errorf("%w: válido de %s até %s", ErrCertificateExpired,
			certificate.NotBefore.Format(time.RFC3339), certificate.NotAfter.Format(time.RFC3339))
	}

	chain := [][]byte{certificate.Raw}
	for _, ca := range caCerts {
		chain = append(chain, ca.Raw)
	}

	return tls.Certificate{
		Certificate: chain,
		PrivateKey:  privateKey,
		Leaf:        certificate,
	}, nil
}

// Describe resume o certificado para log
func Describe(cert *x509.Certificate) []interface{} {
	return []interface{}{
		"subject", cert.Subject.CommonName,
		"issuer", cert.Issuer.CommonName,
		"not_after", cert.NotAfter.Format(time.RFC3339),
	}
}
