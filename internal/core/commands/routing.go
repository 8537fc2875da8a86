package commands

// DefaultExchange is the topic exchange both command kinds are published to.
const DefaultExchange = "iot_commands"

// RoutingKey builds the broker topic a device subscribes to.
func RoutingKey(k Kind, mac string) string {
	if k == KindIR {
		return "ir.command." + mac
	}
	return "pzem.command." + mac
}

// SubjectPatterns are the wildcard subjects bound to the exchange.
func SubjectPatterns() []string {
	return []string{"pzem.command.>", "ir.command.>"}
}
