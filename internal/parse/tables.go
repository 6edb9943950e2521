package parse

import (
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/model"
	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/rules"
)

// Operations is evaluated in order; the first match wins.
var Operations = []rules.Rule[model.Operation]{
	{Tag: model.OperationFast, Pattern: rules.Words("FAST")},
	{Tag: model.OperationEFT, Pattern: rules.Words("EFT", "wire transfer", "wire")},
	{Tag: model.OperationTransfer, Pattern: rules.Stems("havale", "virman")},
	{Tag: model.OperationTransfer, Pattern: rules.Words("domestic transfer", "transfer")},
	{Tag: model.OperationBill, Pattern: rules.Words("bill payment", "bill")},
	{Tag: model.OperationBill, Pattern: rules.Stems("fatura")},
	{Tag: model.OperationPOS, Pattern: rules.Words("POS", "card purchase")},
	{Tag: model.OperationPOS, Pattern: rules.Stems("kart harcama")},
	{Tag: model.OperationRemittance, Pattern: rules.Words("remittance", "SWIFT")},
	{Tag: model.OperationRemittance, Pattern: rules.Stems("para transfer", "döviz transfer")},
}

// Channels is evaluated in order; the first match wins.
var Channels = []rules.Rule[model.Channel]{
	{Tag: model.ChannelBranch, Pattern: rules.Words("şube", "sube", "branch")},
	{Tag: model.ChannelDigital, Pattern: rules.Words("internet", "İnternet", "mobil", "mobile", "online")},
}

// Directions is evaluated in order; the first match wins.
var Directions = []rules.Rule[model.Direction]{
	{Tag: model.DirectionInbound, Pattern: rules.Stems("gelen")},
	{Tag: model.DirectionInbound, Pattern: rules.Words("incoming", "inbound")},
	{Tag: model.DirectionOutbound, Pattern: rules.Stems("giden")},
	{Tag: model.DirectionOutbound, Pattern: rules.Words("outgoing", "outbound")},
}

// DefaultEchoPrefixes are channel and operation labels the statement repeats
// at the start of a description, as in "Internet - ...".
var DefaultEchoPrefixes = []string{
	"İnternet", "Internet", "Mobil", "Mobile", "Şube", "Sube", "Branch",
	"Diğer", "Diger", "Other",
}
