package http

import (
	"time"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/domain"
	"github.com/aussiebroadwan/pamconnect/pkg/pamsdk"
)

func toProfile(p domain.Player) pamsdk.Profile {
	return pamsdk.Profile{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Birth: pamsdk.BirthDate{
			Day:   p.BirthDate.Day(),
			Month: int(p.BirthDate.Month()),
			Year:  p.BirthDate.Year(),
		},
		Mobile:   pamsdk.Mobile{Prefix: p.MobilePrefix, Number: p.MobileNumber},
		Country:  p.Country,
		Currency: p.Currency,
		UserConsents: pamsdk.UserConsents{
			TermsAndConditions: p.ConsentTerms,
			EmailMarketing:     p.ConsentEmailMarketing,
			SMS:                p.ConsentSMS,
			ThirdParty:         p.ConsentThirdParty,
		},
	}
}

func fromRegisterRequest(req pamsdk.RegisterRequest) domain.Player {
	return domain.Player{
		Username:              req.Username,
		Email:                 req.Email,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		BirthDate:             time.Date(req.Birth.Year, time.Month(req.Birth.Month), req.Birth.Day, 0, 0, 0, 0, time.UTC),
		MobilePrefix:          req.Mobile.Prefix,
		MobileNumber:          req.Mobile.Number,
		Country:               req.Country,
		Currency:              req.Currency,
		ConsentTerms:          req.UserConsents.TermsAndConditions,
		ConsentEmailMarketing: req.UserConsents.EmailMarketing,
		ConsentSMS:            req.UserConsents.SMS,
		ConsentThirdParty:     req.UserConsents.ThirdParty,
	}
}

func toSessionToken(sessionID string, p domain.Player) pamsdk.SessionToken {
	return pamsdk.SessionToken{
		SessionID:     sessionID,
		UniversalID:   p.ID,
		HasToAcceptTC: p.HasToAcceptTC,
		HasToSetPass:  p.HasToSetPass,
	}
}

func toBalance(w domain.Wallet) pamsdk.Balance {
	return pamsdk.Balance{
		Currency:    w.Currency,
		TotalAmount: domain.MinorToMajor(w.TotalMinor()),
		RealAmount:  domain.MinorToMajor(w.RealMinor),
		BonusAmount: domain.MinorToMajor(w.BonusMinor),
	}
}
