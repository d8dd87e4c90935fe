package networks

var StarknetMainnet Network = NewStarknetMainnet()

type starknetMainnet struct{}

func NewStarknetMainnet() *starknetMainnet {
	return &starknetMainnet{}
}

func (self *starknetMainnet) GetName() string {
	return "mainnet"
}

func (self *starknetMainnet) GetID() NetworkID {
	return SNMain
}

func (self *starknetMainnet) GetChainID() string {
	return SNMain.ChainID()
}

func (self *starknetMainnet) GetAlternativeNames() []string {
	return []string{"sn-main", "starknet"}
}

func (self *starknetMainnet) GetNodeVariableName() string {
	return "STARKNET_MAINNET_NODE"
}

func (self *starknetMainnet) GetDefaultNodes() map[string]string {
	return map[string]string{
		"mainnet-starknetid": "https://rpc.starknet.id",
		"mainnet-blast":      "https://starknet-mainnet.public.blastapi.io/rpc/v0_7",
	}
}

func (self *starknetMainnet) GetContracts() Contracts {
	return mainnetContracts
}
