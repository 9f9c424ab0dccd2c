package domain

import "errors"

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound            = errors.New("ressource introuvable")
	ErrUserNotFound        = errors.New("utilisateur introuvable")
	ErrCompanyNotFound     = errors.New("entreprise introuvable")
	ErrEmailAlreadyExists  = errors.New("cet email est déjà enregistré")
	ErrCompanyNameTaken    = errors.New("ce nom d'entreprise est déjà utilisé")
	ErrInvalidInput        = errors.New("entrée invalide")
	ErrInvalidCredentials  = errors.New("identifiants invalides")
	ErrUnauthorized        = errors.New("non autorisé")
	ErrForbidden           = errors.New("accès refusé")
	ErrAccountNotActive    = errors.New("compte inactif ou en attente de validation")
	ErrSeatLimitReached    = errors.New("limite d'utilisateurs du plan atteinte")
	ErrTokenExpired        = errors.New("jeton expiré")
	ErrTokenInvalid        = errors.New("jeton invalide")
	ErrPlanInactive        = errors.New("plan d'abonnement inactif ou inexistant")
	ErrConflict            = errors.New("conflit avec l'état actuel")
)
