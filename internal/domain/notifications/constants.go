package notifications

const (
	TypeContractCreated  = "contract_created"
	TypeContractSigned   = "contract_signed"
	TypeContractStatus   = "contract_status"
	TypePaymentCreated   = "payment_created"
	TypePaymentStatus    = "payment_status"
	TypeContractExpiring = "contract_expiring"
	TypePaymentDue       = "payment_due"
	TypePaymentOverdue   = "payment_overdue"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)
