package model

// Operation is the payment type of a transaction.
type Operation string

const (
	OperationFast       Operation = "fast"
	OperationEFT        Operation = "eft"
	OperationTransfer   Operation = "transfer" // domestic havale
	OperationBill       Operation = "bill"
	OperationPOS        Operation = "pos"
	OperationRemittance Operation = "remittance"
	OperationOther      Operation = "other"
)

// Channel is where a transaction originated.
type Channel string

const (
	ChannelBranch  Channel = "branch"
	ChannelDigital Channel = "digital"
	ChannelOther   Channel = "other"
)

// Direction is inbound or outbound for transfer-type rows. Empty when unknown.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
	DirectionNone     Direction = ""
)

// Category is the coarse classification resolved from matched tags.
type Category string

const (
	CategoryIncoming Category = "incoming"
	CategoryOutgoing Category = "outgoing"
	CategoryFee      Category = "fee"
	CategoryPOS      Category = "pos"
	CategoryInvoice  Category = "invoice"
	CategoryOther    Category = "other"
)
