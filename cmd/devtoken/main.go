// devtoken firma un JWT local (AUTH_MODE=jwt) para probar la API a mano.
//
//	go run ./cmd/devtoken -user c-1 -role COMPANY -province Madrid -company "Refugio Sol"
package main

import (
	"flag"
	"fmt"
	"os"

	"adopta-api/internal/adapters/auth/jwtauth"
	"adopta-api/internal/config"
	"adopta-api/internal/ports/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var (
		userID   = flag.String("user", "", "ID del usuario (sub)")
		role     = flag.String("role", string(auth.RoleIndividual), "COMPANY | INDIVIDUAL")
		province = flag.String("province", "", "provincia del usuario")
		email    = flag.String("email", "", "email")
		company  = flag.String("company", "", "nombre de la protectora (solo COMPANY)")
		secret   = flag.String("secret", cfg.Auth.JWTSecret, "secreto HS256 (default JWT_SECRET)")
		ttl      = flag.Duration("ttl", cfg.Auth.JWTTTL, "validez del token")
	)
	flag.Parse()

	r, ok := auth.ParseRole(*role)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	p := auth.Principal{
		UserID: *userID,
		Email:  *email,
		Role:   r,
	}
	if *province != "" {
		prov, ok := auth.NormalizeProvince(*province)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown province %q\n", *province)
			os.Exit(2)
		}
		p.Province = prov
	}
	if r == auth.RoleCompany {
		p.CompanyName = *company
		p.Approved = true
	}

	a, err := jwtauth.New(jwtauth.Config{Secret: *secret, Issuer: cfg.Auth.JWTIssuer, TTL: *ttl})
	if err != nil {
		fmt.Fprintf(os.Stderr, "jwt: %v\n", err)
		os.Exit(1)
	}

	tok, err := a.Issue(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
