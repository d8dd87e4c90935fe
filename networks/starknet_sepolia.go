package networks

var StarknetSepolia Network = NewStarknetSepolia()

type starknetSepolia struct{}

func NewStarknetSepolia() *starknetSepolia {
	return &starknetSepolia{}
}

func (self *starknetSepolia) GetName() string {
	return "sepolia"
}

func (self *starknetSepolia) GetID() NetworkID {
	return SNSepolia
}

func (self *starknetSepolia) GetChainID() string {
	return SNSepolia.ChainID()
}

func (self *starknetSepolia) GetAlternativeNames() []string {
	return []string{"sn-sepolia", "testnet"}
}

func (self *starknetSepolia) GetNodeVariableName() string {
	return "STARKNET_SEPOLIA_NODE"
}

func (self *starknetSepolia) GetDefaultNodes() map[string]string {
	return map[string]string{
		"sepolia-starknetid": "https://sepolia.rpc.starknet.id",
		"sepolia-blast":      "https://starknet-sepolia.public.blastapi.io/rpc/v0_7",
	}
}

func (self *starknetSepolia) GetContracts() Contracts {
	return sepoliaContracts
}
