package question

import "strings"

// DefaultTopic is assigned when no keyword matches.
const DefaultTopic = "General Networking"

type topicKeywords struct {
	topic    string
	keywords []string
}

// topicTable is ordered; ties go to the earlier topic.
var topicTable = []topicKeywords{
	{"Network Infrastructure", []string{"switch", "router", "hub", "access point", "firewall", "load balancer", "bridge", "modem", "transceiver", "rack", "patch panel", "UPS", "PDU", "NIC", "media converter"}},
	{"IP Addressing & Subnetting", []string{"subnet", "IP address", "CIDR", "VLSM", "APIPA", "169.254", "IPv4", "IPv6", "NAT", "PAT", "DHCP", "default gateway", "/28", "/30", "/24", "broadcast address", "network address", "supernet"}},
	{"Routing & Switching Protocols", []string{"OSPF", "EIGRP", "BGP", "RIP", "routing", "administrative distance", "static route", "dynamic route", "STP", "spanning tree", "RSTP", "VLAN", "802.1Q", "trunking", "trunk", "LACP", "link aggregation", "EtherChannel"}},
	{"Wireless Networking", []string{"wireless", "Wi-Fi", "SSID", "2.4GHz", "5GHz", "802.11", "antenna", "omnidirectional", "heat map", "WPA", "WPA2", "WPA3", "channel", "interference", "mesh network", "ad hoc"}},
	{"Network Security", []string{"firewall", "ACL", "VPN", "IPsec", "IDS", "IPS", "SIEM", "encryption", "AES", "ESP", "AH", "certificate", "SSL", "TLS", "802.1X", "RADIUS", "TACACS", "port security", "MAC filtering", "NAC", "MFA", "SSO"}},
	{"Network Services & Protocols", []string{"DNS", "DHCP", "NTP", "SNMP", "SMTP", "HTTP", "HTTPS", "FTP", "TFTP", "SSH", "Telnet", "LDAP", "NFS", "SMB", "Syslog", "MIB", "IMAP", "POP3", "MX record", "TTL", "A record"}},
	{"Network Troubleshooting", []string{"troubleshoot", "ping", "tracert", "traceroute", "netstat", "nslookup", "dig", "nmap", "tcpdump", "Wireshark", "packet capture", "cable tester", "OTDR", "loopback", "baseline"}},
	{"Cabling & Physical Layer", []string{"fiber", "Cat 5", "Cat 6", "Cat 8", "RJ45", "RJ11", "coaxial", "SFP", "LC", "SC", "ST", "MPO", "patch cable", "crossover", "straight-through", "TIA", "punch down", "keystone", "crimping", "multimode", "single-mode", "plenum", "shielded", "copper tape", "jumbo frame"}},
	{"Cloud & Virtualization", []string{"cloud", "SaaS", "IaaS", "PaaS", "hybrid", "private cloud", "public cloud", "virtual", "VM", "hypervisor", "NFV", "SDN", "SD-WAN", "VXLAN", "container"}},
	{"Network Attacks & Threats", []string{"attack", "spoofing", "ARP spoofing", "MAC flooding", "evil twin", "rogue", "DNS poisoning", "DDoS", "DoS", "phishing", "man-in-the-middle", "brute force", "social engineering", "ransomware", "botnet", "CAM table"}},
	{"Disaster Recovery & Documentation", []string{"backup", "RPO", "RTO", "MTTR", "MTBF", "disaster recovery", "redundancy", "failover", "SLA", "change management", "documentation", "diagram", "logical diagram", "baseline", "audit", "compliance"}},
}

// ClassifyTopic picks the topic whose keywords occur most often (as
// case-insensitive substrings) in text.
func ClassifyTopic(text string) string {
	lower := strings.ToLower(text)
	best, bestScore := DefaultTopic, 0
	for _, t := range topicTable {
		score := 0
		for _, kw := range t.keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = t.topic, score
		}
	}
	return best
}

// Topics returns every classifier topic in table order, followed by DefaultTopic.
func Topics() []string {
	out := make([]string, 0, len(topicTable)+1)
	for _, t := range topicTable {
		out = append(out, t.topic)
	}
	return append(out, DefaultTopic)
}
