package cart

// Visitor-facing texts, in the storefront's language.
const (
	MsgAddedToCart  = "Adicionado ao carrinho!"
	MsgCartCleared  = "Carrinho esvaziado."
	MsgConfirmClear = "Tem certeza que deseja esvaziar o carrinho?"
	MsgEmptyCart    = "Seu carrinho está vazio!"
	MsgOrderSent    = "Seu pedido foi enviado para o WhatsApp! Finalize a conversa por lá."
)

const (
	orderGreeting  = "Olá! Gostaria de fazer o seguinte pedido:\n\n"
	orderSeparator = "------------------------\n"
)
