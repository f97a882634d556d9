package email

const (
	subjectMatchesReady     = "Your warehouse matches are ready"
	subjectAgreementSent    = "Your lease agreement is ready to sign"
	subjectAgreementSigned  = "Lease agreement fully executed"
	subjectEngagementUpdate = "Update on your warehouse deal"
	subjectEngagementLapsed = "Your warehouse deal has expired"
)
