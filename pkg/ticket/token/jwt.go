/*
 * Please refer to the LICENSE file in the root directory of the project.
 * https://github.com/casflow/casflow/blob/master/LICENSE
 */

package token

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"k8s.io/klog/v2"

	"casflow.io/casflow/pkg/apiserver/authentication"
	"casflow.io/casflow/pkg/ticket"
)

const (
	DefaultIssuerName = "casflow"
)

// Claims renders a validated service ticket as a signed token. The ticket
// id travels as the JWT id so relying parties can correlate with server
// side state.
type Claims struct {
	Attributes map[string][]string `json:"attributes,omitempty"`
	jwt.StandardClaims
}

// Issuer turns validated service tickets into tokens a relying party can
// consume without a second round trip, and verifies them back.
type Issuer interface {
	IssueTo(st *ticket.ServiceTicket, authn *authentication.Authentication, expiresIn time.Duration) (string, error)
	Verify(tokenString string) (*Claims, error)
}

type jwtTokenIssuer struct {
	name   string
	secret []byte
	// maximum tolerated clock difference between issuer and verifier
	maximumClockSkew time.Duration
}

func NewIssuer(secret string, maximumClockSkew time.Duration) Issuer {
	return &jwtTokenIssuer{
		name:             DefaultIssuerName,
		secret:           []byte(secret),
		maximumClockSkew: maximumClockSkew,
	}
}

func (s *jwtTokenIssuer) IssueTo(st *ticket.ServiceTicket, authn *authentication.Authentication, expiresIn time.Duration) (string, error) {
	if st == nil || authn == nil || authn.Principal == nil {
		return "", fmt.Errorf("cannot issue a token without a validated ticket and authentication")
	}
	issuedAt := time.Now().Unix() - int64(s.maximumClockSkew.Seconds())
	clm := &Claims{
		Attributes: authn.Principal.Attributes,
		StandardClaims: jwt.StandardClaims{
			Id:        st.ID(),
			Subject:   authn.Principal.ID,
			Issuer:    s.name,
			IssuedAt:  issuedAt,
			NotBefore: issuedAt,
		},
	}
	if st.Service != nil {
		clm.Audience = []string{st.Service.ID}
	}
	if expiresIn > 0 {
		clm.ExpiresAt = issuedAt + int64(expiresIn.Seconds())
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, clm).SignedString(s.secret)
	if err != nil {
		klog.Error(err)
		return "", err
	}
	return tokenString, nil
}

func (s *jwtTokenIssuer) Verify(tokenString string) (*Claims, error) {
	clm := &Claims{}
	// checks the signature and the registered time claims
	if _, err := jwt.ParseWithClaims(tokenString, clm, s.keyFunc); err != nil {
		klog.Error(err)
		return nil, err
	}
	return clm, nil
}

func (s *jwtTokenIssuer) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("expect token signed with HMAC but got %v", token.Header["alg"])
	}
	return s.secret, nil
}
