// Package protocol implements the framed binary wire format used between
// clients and servers: a fixed header, a string-keyed payload, CRC-32
// validation, and length-prefixed stream framing.
package protocol

// MessageType is the wire-level message type code (header offset 6, 2 bytes).
type MessageType uint16

const (
	ConnectRequest    MessageType = 1
	ConnectResponse   MessageType = 2
	AuthRequest       MessageType = 3
	AuthResponse      MessageType = 4
	RegisterUser      MessageType = 5
	RegisterDevice    MessageType = 6
	ReserveSeat       MessageType = 7
	PurchaseTicket    MessageType = 8
	CreateGroup       MessageType = 9
	DeleteUser        MessageType = 10
	DeleteGroupMember MessageType = 11
	UpdatePriceList   MessageType = 12 // reserved, unused
	GetVehicleStatus  MessageType = 13
	MulticastUpdate   MessageType = 14
	ResponseSuccess   MessageType = 15
	ResponseError     MessageType = 16
	Heartbeat         MessageType = 17
	Disconnect        MessageType = 18
	UpdatePrice       MessageType = 19
	UpdateVehicle     MessageType = 20
	UpdateCapacity    MessageType = 21
	AddMemberToGroup  MessageType = 1001
)

func (t MessageType) String() string {
	switch t {
	case ConnectRequest:
		return "CONNECT_REQUEST"
	case ConnectResponse:
		return "CONNECT_RESPONSE"
	case AuthRequest:
		return "AUTH_REQUEST"
	case AuthResponse:
		return "AUTH_RESPONSE"
	case RegisterUser:
		return "REGISTER_USER"
	case RegisterDevice:
		return "REGISTER_DEVICE"
	case ReserveSeat:
		return "RESERVE_SEAT"
	case PurchaseTicket:
		return "PURCHASE_TICKET"
	case CreateGroup:
		return "CREATE_GROUP"
	case DeleteUser:
		return "DELETE_USER"
	case DeleteGroupMember:
		return "DELETE_GROUP_MEMBER"
	case UpdatePriceList:
		return "UPDATE_PRICE_LIST"
	case GetVehicleStatus:
		return "GET_VEHICLE_STATUS"
	case MulticastUpdate:
		return "MULTICAST_UPDATE"
	case ResponseSuccess:
		return "RESPONSE_SUCCESS"
	case ResponseError:
		return "RESPONSE_ERROR"
	case Heartbeat:
		return "HEARTBEAT"
	case Disconnect:
		return "DISCONNECT"
	case UpdatePrice:
		return "UPDATE_PRICE"
	case UpdateVehicle:
		return "UPDATE_VEHICLE"
	case UpdateCapacity:
		return "UPDATE_CAPACITY"
	case AddMemberToGroup:
		return "ADD_MEMBER_TO_GROUP"
	default:
		return "UNKNOWN"
	}
}

// VehicleType is the wire-level vehicle type code.
type VehicleType uint8

const (
	Bus        VehicleType = 1
	Tram       VehicleType = 2
	Trolleybus VehicleType = 3
)

func (v VehicleType) String() string {
	switch v {
	case Bus:
		return "BUS"
	case Tram:
		return "TRAM"
	case Trolleybus:
		return "TROLLEYBUS"
	default:
		return "UNKNOWN"
	}
}

// ParseVehicleType accepts both the numeric string form ("1") and the name
// form ("BUS"), since clients populate the field either way.
func ParseVehicleType(s string) (VehicleType, bool) {
	switch s {
	case "1", "BUS":
		return Bus, true
	case "2", "TRAM":
		return Tram, true
	case "3", "TROLLEYBUS":
		return Trolleybus, true
	default:
		return 0, false
	}
}

// TicketType is the wire-level ticket type code.
type TicketType uint8

const (
	Individual     TicketType = 1
	GroupFamily    TicketType = 2
	GroupBusiness  TicketType = 3
	GroupTourist   TicketType = 4
)

func (t TicketType) String() string {
	switch t {
	case Individual:
		return "INDIVIDUAL"
	case GroupFamily:
		return "GROUP_FAMILY"
	case GroupBusiness:
		return "GROUP_BUSINESS"
	case GroupTourist:
		return "GROUP_TOURIST"
	default:
		return "UNKNOWN"
	}
}

func ParseTicketType(s string) (TicketType, bool) {
	switch s {
	case "1", "INDIVIDUAL":
		return Individual, true
	case "2", "GROUP_FAMILY":
		return GroupFamily, true
	case "3", "GROUP_BUSINESS":
		return GroupBusiness, true
	case "4", "GROUP_TOURIST":
		return GroupTourist, true
	default:
		return 0, false
	}
}

// Magic is "TPMP" packed as a big-endian uint32 (Transport Protocol Message
// Protocol), stored at header offset 0.
const Magic uint32 = 0x54504D50

// Version is the only header version this codec understands.
const Version uint16 = 1

// HeaderSize is the packed, no-padding size of Message.Header in bytes.
const HeaderSize = 4 + 2 + 2 + 4 + 4 + 4 + 4
